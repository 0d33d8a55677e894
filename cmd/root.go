// Package cmd holds the command line interface of the server
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "treydbuddy",
	Short:        "TreydBuddy auth backend",
	Long:         `TreydBuddy serves the account store, the session API and the guarded event pages.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"sets the log level, overrides LOG_LEVEL")
}
