package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marinelog/decoder/internal/decoder"
	"github.com/marinelog/decoder/internal/models"
)

var decodeJSON bool

var decodeCmd = &cobra.Command{
	Use:   "decode <file>...",
	Short: "Decode files and print a summary of their contents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "print full results as JSON instead of a summary")
	decodeCmd.Flags().Int("workers", 4, "number of files decoded concurrently")
	cobra.CheckErr(viper.BindPFlag("workers", decodeCmd.Flags().Lookup("workers")))
}

func runDecode(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	inputs := make([]decoder.Input, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, decoder.Input{Name: filepath.Base(path), Data: data})
	}

	batch := reg.DecodeAll(inputs, viper.GetInt("workers"))
	for _, item := range batch {
		for _, w := range item.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: offset %d (%s): %s\n", item.Name, w.Offset, w.Record, w.Reason)
		}
	}

	if decodeJSON {
		if err := printDecodeJSON(cmd, batch); err != nil {
			return err
		}
	} else {
		for _, item := range batch {
			fmt.Fprintln(cmd.OutOrStdout(), summaryLine(item.Name, item.Result))
		}
	}

	failed := 0
	for _, item := range batch {
		if !item.Result.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to decode", failed, len(batch))
	}
	return nil
}

func printDecodeJSON(cmd *cobra.Command, batch []decoder.BatchResult) error {
	type fileResult struct {
		File     string                  `json:"file"`
		Result   *models.ParseResult     `json:"result"`
		Warnings []*models.DecodeWarning `json:"warnings,omitempty"`
	}
	out := make([]fileResult, 0, len(batch))
	for _, item := range batch {
		out = append(out, fileResult{File: item.Name, Result: item.Result, Warnings: item.Warnings})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func summaryLine(name string, result *models.ParseResult) string {
	if !result.Success {
		return fmt.Sprintf("%s: FAILED: %s", name, result.Error)
	}
	parts := []string{
		countNoun(len(result.Waypoints), "waypoint"),
		countNoun(len(result.Tracks), "track"),
		countNoun(len(result.Routes), "route"),
		countNoun(len(result.DepthReadings), "depth reading"),
	}
	line := fmt.Sprintf("%s: %s: %s", name, result.FileMetadata.Format, strings.Join(parts, ", "))
	if m := result.SonarMetadata; m != nil {
		line += fmt.Sprintf(", sonar %.0f kHz", m.Frequency)
	}
	return line
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
