// Package main is the entry point for the quickpoll CLI.
//
// QuickPoll can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	quickpoll serve -c config.yaml    # Start the poll server
//	quickpoll validate -c config.yaml # Validate configuration
//	quickpoll version                 # Show version info
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "quickpoll",
	Short: "A lightweight polling widget",
	Long: `QuickPoll is a lightweight polling widget.

Create a question with two to six answers, share its eight-character id,
collect votes and see the percentages.

Quick start:
  1. Create a config file (quickpoll.yaml)
  2. Run: quickpoll serve -c quickpoll.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  title: Team Polls
  port: 8080
  demo: true
  polls:
    - id: LUNCH001
      question: Where should we eat?
      options: [Tacos, Ramen, Salad]`,
	// No Run/RunE means this just shows help when called without subcommands
	PersistentPreRunE: loadEnvFile,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this quickpoll binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quickpoll %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
	},
}

// loadEnvFile loads variables from --env-file before the config is parsed,
// so ${VAR} references in the config can see them. Variables already set in
// the environment win.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("env file %q not found", path)
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "path to a .env file loaded before the config")

	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
