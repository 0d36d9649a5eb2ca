package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marinelog/decoder/internal/decoder"
	"github.com/marinelog/decoder/internal/export"
	"github.com/marinelog/decoder/internal/models"
)

var (
	convertOutput string
	convertMerge  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Decode files and export them in another format",
	Long: `Decodes the given files and writes them out in an export format.
Multiple inputs require --merge, which combines them into a single
result before exporting.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("format", "f", "json", "export format (json, msgpack, csv, gpx, xlsx)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().BoolVar(&convertMerge, "merge", false, "merge multiple inputs into one result")
	cobra.CheckErr(viper.BindPFlag("format", convertCmd.Flags().Lookup("format")))
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && !convertMerge {
		return fmt.Errorf("%d inputs given; pass --merge to combine them", len(args))
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	results := make([]*models.ParseResult, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		result, warnings := reg.Decode(data, name)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: offset %d (%s): %s\n", name, w.Offset, w.Record, w.Reason)
		}
		if !result.Success {
			return fmt.Errorf("%s: %s", name, result.Error)
		}
		results = append(results, result)
	}

	merged := decoder.MergeResults(results, decoder.DefaultMergeConfig())

	out := cmd.OutOrStdout()
	if convertOutput != "" {
		file, err := os.Create(convertOutput)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	return export.Write(out, merged, viper.GetString("format"))
}
