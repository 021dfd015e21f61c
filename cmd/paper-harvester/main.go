// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-harvester CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-harvester/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// contactEmail returns the operator contact address, when one is configured.
func contactEmail() string {
	return loadedSecrets[secrets.ContactEmail]
}

// rootCmd is the base command for the paper-harvester CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-harvester",
	Short: "Discover and download openly accessible conference papers",
	Long: `paper-harvester searches a bibliographic index for papers matching a
keyword, venue, and year, resolves an openly accessible PDF for each
candidate through an open-access preprint index, and persists downloaded
artifacts together with structured metadata and failure reports.

Runs are idempotent: an artifact already present in the output directory
is never fetched again.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-harvester.yaml or ~/.config/paper-harvester/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-harvester")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-harvester"))
		}
	}

	viper.SetEnvPrefix("PAPER_HARVESTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
