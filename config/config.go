// Package config provides YAML configuration parsing for the statebox demo
// service.
//
// Example configuration:
//
//	title: Groceries
//	port: 8080
//	reentrancy: queue
//	log_level: info
//
//	todos:
//	  - title: buy milk
//	  - title: ${FIRST_CHORE:-walk the dog}
//	    done: true
//
//	counters:
//	  count1: 0
//	  count2: 0
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/statebox"
)

const (
	defaultPort  = 8080
	defaultTitle = "statebox"
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is shown by clients. Defaults to "statebox".
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Reentrancy is the store policy for mutations issued during a
	// notification pass: "queue" (default) or "reject".
	Reentrancy string `yaml:"reentrancy"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Todos seeds the todo store, in order.
	Todos []TodoConfig `yaml:"todos"`

	// Counters seeds the counter store.
	Counters CounterConfig `yaml:"counters"`
}

// TodoConfig seeds one todo.
type TodoConfig struct {
	// Title supports environment variable substitution: ${VAR} or ${VAR:-default}
	Title string `yaml:"title"`

	// Done marks the todo as already done.
	Done bool `yaml:"done"`
}

// CounterConfig seeds the two counters.
type CounterConfig struct {
	Count1 int `yaml:"count1"`
	Count2 int `yaml:"count2"`
}

// ReentrancyPolicy returns the parsed store policy.
func (c *Config) ReentrancyPolicy() statebox.Reentrancy {
	// validated by Parse
	policy, _ := statebox.ParseReentrancy(c.Reentrancy)
	return policy
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	// validated by Parse
	level, _ := parseLevel(c.LogLevel)
	return level
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in todo titles. Defaults are applied
// for Title, Port, Reentrancy and LogLevel.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Reentrancy == "" {
		cfg.Reentrancy = statebox.ReentrancyQueue.String()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if _, err := statebox.ParseReentrancy(c.Reentrancy); err != nil {
		return fmt.Errorf("reentrancy: %w", err)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	for i := range c.Todos {
		td := &c.Todos[i]

		expanded, err := expandEnvVars(td.Title)
		if err != nil {
			return fmt.Errorf("todos[%d]: title: %w", i, err)
		}
		td.Title = expanded

		if strings.TrimSpace(td.Title) == "" {
			return fmt.Errorf("todos[%d]: title is required", i)
		}
	}

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q (expected debug, info, warn or error)", s)
	}
}
