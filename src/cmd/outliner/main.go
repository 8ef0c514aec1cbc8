// Package main is the entry point for the Outliner application.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"outliner/local-app/src/pkg/config"
	"outliner/local-app/src/pkg/model"
)

var (
	configFile string
	storeType  string
	treeKey    string

	cfg *model.Config

	rootCmd = &cobra.Command{
		Use:   "outliner",
		Short: "A terminal outline editor",
		Long: `Outliner edits a tree of collapsible text nodes and persists it
in a key-value store (SQLite, Badger, Redis or memory).`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE:              runREPL,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&storeType, "store", "", "store backend: sqlite, badger, redis or memory")
	rootCmd.PersistentFlags().StringVar(&treeKey, "key", "", "store key of the outline")

	rootCmd.AddCommand(dumpCmd, rmCmd, logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env files, the config file and the command line overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	config.LoadEnvFiles(".env", ".env.local")

	if configFile != "" {
		config.SetConfigPath(configFile)
	}
	if err := config.ConfigLoad(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg = config.ConfigGet()
	if storeType != "" {
		cfg.StoreType = storeType
	}
	if treeKey != "" {
		cfg.DefaultKey = treeKey
	}
	return config.Validate(cfg)
}

// keyOrDefault returns the key given on the command line or the configured one
func keyOrDefault(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.DefaultKey
}
