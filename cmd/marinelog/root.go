package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marinelog/decoder/internal/decoder"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "marinelog",
	Short: "Decode chartplotter and fishfinder log files",
	Long: `Reads waypoint archives, sonar logs and track files written by
Lowrance, Garmin, Humminbird and Raymarine units, normalizes them into a
common model and exports them as JSON, msgpack, CSV, GPX or XLSX.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.marinelog.yaml)")
	rootCmd.PersistentFlags().String("symbols", "", "YAML file overriding the built-in waypoint symbol tables")
	cobra.CheckErr(viper.BindPFlag("symbols", rootCmd.PersistentFlags().Lookup("symbols")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".marinelog" (without extension).
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".marinelog")
	}

	viper.SetDefault("workers", 4)
	viper.SetDefault("format", "json")

	viper.SetEnvPrefix("MARINELOG")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newRegistry builds the decoder registry, applying a symbol table
// override when one is configured.
func newRegistry() (*decoder.Registry, error) {
	path := viper.GetString("symbols")
	if path == "" {
		return decoder.NewRegistry(), nil
	}
	symbols, err := decoder.LoadSymbolTable(path)
	if err != nil {
		return nil, fmt.Errorf("loading symbol table: %w", err)
	}
	return decoder.NewRegistryWithSymbols(symbols), nil
}
