// Package cmd holds the billwatch command line.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billwatch",
	Short: "Watch legislative bills and meetings and notify subscribed servers",
	Long: `billwatch polls the legislature's bill and meeting listings, compares
them with the last stored snapshot and posts new and changed items to every
subscribed server.

Without a subcommand it behaves like "billwatch run".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; variables already set take precedence.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	},
	RunE: runService,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
