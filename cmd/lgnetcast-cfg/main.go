// Lgnetcast-cfg discovers and configures LG NetCast televisions.
//
// It provides SSDP-based device discovery and an interactive setup wizard
// that pairs with a TV using the PIN the TV displays on screen. Configured
// devices are stored in a small YAML registry in the user's config
// directory.
//
// Usage:
//
//	lgnetcast-cfg [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'lgnetcast-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/splinter98/lgnetcast/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lgnetcast-cfg",
	Short: "LG NetCast TV Setup Utility",
	Long: `A standalone utility for discovering and configuring LG NetCast TVs.

Provides SSDP device discovery and an interactive setup wizard that pairs
with a TV using the access PIN the TV displays on screen.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runSetup(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lgnetcast-cfg %s (commit: %s)\n", version.Version, version.Commit)
	},
}
