// Package main is the entry point for the statebox CLI.
//
// The CLI runs the demo service backed by the todo and counter stores, and
// can replay the store scenarios without a server.
//
// Usage:
//
//	statebox serve -c config.yaml    # Start the HTTP service
//	statebox validate -c config.yaml # Validate configuration
//	statebox demo                    # Run the store scenarios
//	statebox version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "statebox",
	Short: "Observable keyed state stores",
	Long: `statebox serves todo and counter stores over HTTP.

Every change to a store is streamed to clients with Server-Sent Events, and
store activity is exported as Prometheus metrics.

Quick start:
  1. Create a config file (statebox.yaml)
  2. Run: statebox serve -c statebox.yaml
  3. curl -X POST localhost:8080/api/todos -d '{"title":"buy milk"}'

Example config:
  port: 8080
  reentrancy: queue
  todos:
    - title: buy milk`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
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
	Long:  `Print the version, commit hash, and build date of this statebox binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("statebox %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
