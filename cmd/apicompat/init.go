package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"apicompat/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize apicompat configuration",
	Long:  "Creates a .apicompat/ directory with default configuration in the current directory",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configPath := filepath.Join(cwd, ".apicompat", "config.json")
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		// Idempotent behavior: already initialized is success (CI-friendly)
		fmt.Println("apicompat already initialized.")
		fmt.Printf("Configuration at: %s\n", configPath)
		fmt.Println("\nRun 'apicompat init --force' to overwrite.")
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(cwd); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Println("Initialized apicompat.")
	fmt.Printf("Configuration at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set baseline.feedUrl and baseline.packageId to enable baseline fetching")
	fmt.Println("  2. Run 'apicompat check <artifact> --baseline <previous>' to compare")
	return nil
}
