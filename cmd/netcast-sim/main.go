// Netcast-sim emulates an LG NetCast TV on the local network.
//
// It answers SSDP search requests for the netrcu service type, serves a
// device descriptor document, and accepts a configured pairing PIN at the
// ROAP auth endpoint. Useful for exercising lgnetcast-cfg without a real
// TV.
//
// Usage:
//
//	netcast-sim [flags]
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/splinter98/lgnetcast/internal/logging"
	"github.com/splinter98/lgnetcast/internal/simulator"
	"github.com/splinter98/lgnetcast/internal/version"
)

var (
	uniqueID  string
	modelName string
	pairKey   string
	httpAddr  string
	logLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netcast-sim",
	Short: "LG NetCast TV Simulator",
	Long: `A simulated LG NetCast TV for development and testing.

Answers SSDP discovery probes, serves a descriptor document, and accepts
the configured pairing PIN at the ROAP auth endpoint.`,
	Version: version.Version,
	RunE:    runSimulator,
}

func init() {
	rootCmd.Flags().StringVar(&uniqueID, "id", "1234", "Unique device id advertised in the USN")
	rootCmd.Flags().StringVar(&modelName, "model", "MockLGModelName", "Model name served in the descriptor")
	rootCmd.Flags().StringVar(&pairKey, "pair-key", "123456", "Pairing PIN accepted at the auth endpoint")
	rootCmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runSimulator(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	sim := simulator.New(logging.GetLogger(), uniqueID, modelName, pairKey)
	sim.HTTPAddr = httpAddr

	if err := sim.Start(); err != nil {
		return err
	}
	defer sim.Close()

	fmt.Printf("Simulating NetCast TV %q (id %s), pair key %s\n", modelName, uniqueID, pairKey)
	fmt.Println("Press Ctrl+C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
