package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/statebox/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a statebox configuration file without starting the server.

This command parses the YAML, expands environment variables, validates all
fields and seeds the stores once. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  statebox validate -c config.yaml
  statebox validate --config /etc/statebox/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	todos, err := config.BuildTodoStore(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	done := 0
	for _, t := range todos.Todos() {
		if t.Done {
			done++
		}
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:       %d\n", cfg.Port)
	fmt.Printf("  Reentrancy: %s\n", cfg.ReentrancyPolicy())
	fmt.Printf("  Log level:  %s\n", cfg.Level())
	fmt.Printf("  Todos:      %d (%d done)\n", len(cfg.Todos), done)
	fmt.Printf("  Counters:   %d + %d\n", cfg.Counters.Count1, cfg.Counters.Count2)

	return nil
}
