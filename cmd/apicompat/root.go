package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apicompat/internal/config"
	"apicompat/internal/logging"
	"apicompat/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "apicompat",
	Short: "apicompat - API surface compatibility checker",
	Long: `apicompat extracts the public API surface of two versions of a library,
diffs them, and classifies every change on the binary and source
compatibility axes. Breaking changes fail the run unless explicitly
suppressed with a justification.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("apicompat version {{.Version}}\n")
}

// mustLoadConfig loads and validates the configuration for the current
// directory, exiting on invalid configuration.
func mustLoadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the run logger from configuration.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}
