package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apicompat/internal/extract"
)

var (
	extractOutput  string
	extractName    string
	extractVersion string
)

var extractCmd = &cobra.Command{
	Use:   "extract <artifact>",
	Short: "Extract an API surface snapshot from an artifact",
	Long: `Extract the API surface from an artifact and write it as a snapshot.

Snapshots are the publishable comparison currency: extract one per
release and later runs can compare against it without the original
artifact. A .zst output suffix compresses the snapshot.

Examples:
  apicompat extract bin/release.scip --output dist/surface-1.3.0.json
  apicompat extract bin/release.scip --output dist/surface-1.3.0.json.zst
  apicompat extract src/ --name Contoso.Client --version 1.3.0`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Snapshot output path (default: stdout)")
	extractCmd.Flags().StringVar(&extractName, "name", "", "Override the surface name")
	extractCmd.Flags().StringVar(&extractVersion, "version", "", "Override the surface version")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	s, err := extract.Extract(context.Background(), args[0], logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if extractName != "" {
		s.Name = extractName
	}
	if extractVersion != "" {
		s.Version = extractVersion
	}

	if extractOutput == "" {
		data, jerr := s.ToJSON()
		if jerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", jerr)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if err := s.WriteSnapshot(extractOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
		os.Exit(1)
	}

	digest, _ := s.Digest()
	logger.Info("Snapshot written", map[string]interface{}{
		"path":    extractOutput,
		"members": len(s.Members),
		"digest":  digest,
	})
}
