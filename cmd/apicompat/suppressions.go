package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apicompat/internal/runner"
	"apicompat/internal/suppress"
)

var (
	suppressionsFile     string
	pruneBaseline        string
	pruneBaselineVersion string
)

var suppressionsCmd = &cobra.Command{
	Use:   "suppressions",
	Short: "Inspect and maintain the suppression file",
}

var suppressionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suppression entries",
	Run:   runSuppressionsList,
}

var suppressionsPruneCmd = &cobra.Command{
	Use:   "prune <candidate-artifact>",
	Short: "Remove suppression entries that no longer match any difference",
	Long: `Run the comparison and rewrite the suppression file without entries
that matched nothing. Stale entries are inert, but pruning keeps the
file an honest record of the breaks that are actually being accepted.`,
	Args: cobra.ExactArgs(1),
	Run:  runSuppressionsPrune,
}

func init() {
	suppressionsCmd.PersistentFlags().StringVar(&suppressionsFile, "file", "", "Suppression file path (default from config)")
	suppressionsPruneCmd.Flags().StringVar(&pruneBaseline, "baseline", "", "Baseline artifact path")
	suppressionsPruneCmd.Flags().StringVar(&pruneBaselineVersion, "baseline-version", "", "Published version to fetch as baseline")

	suppressionsCmd.AddCommand(suppressionsListCmd)
	suppressionsCmd.AddCommand(suppressionsPruneCmd)
	rootCmd.AddCommand(suppressionsCmd)
}

func suppressionPath() string {
	if suppressionsFile != "" {
		return suppressionsFile
	}
	return mustLoadConfig().Suppression.Path
}

func runSuppressionsList(cmd *cobra.Command, args []string) {
	path := suppressionPath()
	file, err := suppress.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(file.Suppressions) == 0 {
		fmt.Printf("No suppressions in %s\n", path)
		return
	}

	fmt.Printf("Suppressions in %s:\n", path)
	for _, s := range file.Suppressions {
		fmt.Printf("  %s  %s", s.DiagnosticID, s.Target)
		if s.Justification != "" {
			fmt.Printf("  (%s)", s.Justification)
		}
		fmt.Println()
	}
}

func runSuppressionsPrune(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	path := suppressionsFile
	if path == "" {
		path = cfg.Suppression.Path
	}

	r := runner.New(cfg, logger, nil)
	result, err := r.Run(context.Background(), runner.Options{
		BaselinePath:    pruneBaseline,
		CandidatePath:   args[0],
		BaselineVersion: pruneBaselineVersion,
		SuppressionPath: path,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(result.Outcome.Stale) == 0 {
		fmt.Println("No stale suppressions.")
		return
	}

	stale := make(map[string]bool, len(result.Outcome.Stale))
	for _, s := range result.Outcome.Stale {
		stale[s.DiagnosticID+"|"+s.Target] = true
	}

	file, err := suppress.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var kept []suppress.Suppression
	for _, s := range file.Suppressions {
		if !stale[s.DiagnosticID+"|"+s.Target] {
			kept = append(kept, s)
		}
	}
	file.Suppressions = kept

	if err := suppress.SaveFile(path, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing suppression file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Pruned %d stale suppression(s) from %s\n", len(stale), path)
}
