package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/splinter98/lgnetcast/internal/discovery"
	"github.com/splinter98/lgnetcast/internal/entries"
	"github.com/splinter98/lgnetcast/internal/logging"
	"github.com/splinter98/lgnetcast/internal/setupflow"
	"github.com/splinter98/lgnetcast/internal/wizard/tui"
)

// Command flags
var (
	entriesPath          string
	defaultInterfaceOnly bool
	scanAttempts         int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&entriesPath, "entries", "", "Path to the entries file (defaults to the user config directory)")
	rootCmd.PersistentFlags().BoolVar(&defaultInterfaceOnly, "default-interface-only", false, "Probe only via the default network interface")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(setupCmd)
}

// scanCmd discovers TVs on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for LG NetCast TVs on the network",
	Long: `Scan for LG NetCast TVs using SSDP discovery.

This command probes every usable network interface for NetCast devices and
displays all discovered TVs with their IDs, addresses, and model names.`,
	Example: `  # Default sweep (3 search bursts, 2 seconds apart)
  lgnetcast-cfg scan

  # Longer sweep for lossy networks
  lgnetcast-cfg scan --attempts 6`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanAttempts, "attempts", discovery.DiscoveryAttempts, "Number of search bursts per sweep")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	scanner := discovery.NewScanner(logging.GetLogger())
	scanner.Attempts = scanAttempts
	scanner.DefaultInterfaceOnly = defaultInterfaceOnly
	defer scanner.Close()

	sweep := time.Duration(scanAttempts)*discovery.SearchInterval + discovery.DescriptorTimeout
	fmt.Printf("Scanning for NetCast TVs (about %s)...\n\n", sweep.Round(time.Second))

	ctx, cancel := context.WithTimeout(cmd.Context(), sweep)
	defer cancel()

	records := scanner.Discover(ctx)
	if len(records) == 0 {
		fmt.Println("No TVs found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the TV is powered on and connected to this network")
		fmt.Println("  - Check that your firewall allows multicast (UDP port 1900)")
		fmt.Println("  - Try --default-interface-only on hosts with many adapters")
		fmt.Println("  - Use the wizard's manual host entry if discovery keeps failing")
		return nil
	}

	sort.Slice(records, func(i, j int) bool { return records[i].UniqueID < records[j].UniqueID })

	fmt.Printf("Found %d device(s):\n\n", len(records))
	for i, record := range records {
		name := record.ModelName()
		if name == "" {
			name = setupflow.DefaultName
		}
		fmt.Printf("%d. %s\n", i+1, name)
		fmt.Printf("   ID:   %s\n", record.UniqueID)
		fmt.Printf("   Host: %s\n", record.Host())
		if friendly := record.UPnP["friendlyName"]; friendly != "" {
			fmt.Printf("   Name: %s\n", friendly)
		}
		fmt.Println()
	}

	fmt.Println("Use 'lgnetcast-cfg setup' to configure a TV")
	return nil
}

// setupCmd runs the interactive setup wizard
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure a TV interactively",
	Long: `Launch the interactive setup wizard.

The wizard discovers TVs (or accepts a manually entered host), asks the TV
to display its pairing PIN, and stores the configured device once the PIN
is accepted.`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	defer logging.Sync()

	path := entriesPath
	if path == "" {
		var err error
		if path, err = entries.DefaultPath(); err != nil {
			return err
		}
	}
	store, err := entries.Open(path)
	if err != nil {
		return err
	}

	scanner := discovery.NewScanner(logging.GetLogger())
	scanner.DefaultInterfaceOnly = defaultInterfaceOnly
	defer scanner.Close()

	flow := setupflow.New(scanner, store, logging.GetLogger())

	p := tea.NewProgram(tui.New(flow, store))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}
	return nil
}
