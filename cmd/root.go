package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFileEnv must match the variable read by config.Load.
const configFileEnv = "TALKER_CONFIG"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "talker",
		Short: "Talker manager HTTP service",
		Long:  "talker serves CRUD-like operations over conference speaker records kept in a JSON file.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}
			if err := os.Setenv(configFileEnv, cfgFile); err != nil {
				return fmt.Errorf("set %s: %w", configFileEnv, err)
			}
			return nil
		},
		// Running talker with no subcommand starts the server.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (overrides "+configFileEnv+")")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckStoreCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newCheckStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-store",
		Short: "Load the configured store and report how many talkers it holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckStore(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
