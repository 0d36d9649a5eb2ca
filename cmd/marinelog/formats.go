package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marinelog/decoder/internal/decoder"
	"github.com/marinelog/decoder/internal/export"
	"github.com/marinelog/decoder/internal/models"
)

var formatsDevice string

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported file formats and export targets",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)

	formatsCmd.Flags().StringVar(&formatsDevice, "device", "", "limit the listing to one vendor (lowrance, garmin, humminbird, raymarine)")
}

func runFormats(cmd *cobra.Command, args []string) error {
	devices := models.AllDevices()
	if formatsDevice != "" {
		device := models.Device(strings.ToLower(formatsDevice))
		if !device.Valid() {
			return fmt.Errorf("unknown device %q", formatsDevice)
		}
		devices = []models.Device{device}
	}

	out := cmd.OutOrStdout()
	for _, device := range devices {
		exts := decoder.ExtensionsForDevice(device)
		for i, ext := range exts {
			exts[i] = "." + ext
		}
		fmt.Fprintf(out, "%-11s %s\n", device.Label(), strings.Join(exts, ", "))
	}
	if formatsDevice == "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Accepted extensions:", decoder.AcceptString())
		fmt.Fprintln(out, "Export formats:", strings.Join(export.Formats(), ", "))
	}
	return nil
}
