package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apicompat/internal/config"
	"apicompat/internal/runner"
	"apicompat/internal/storage"
)

var (
	checkBaseline        string
	checkBaselineVersion string
	checkMode            string
	checkSuppressions    string
	checkSeverities      string
	checkFormat          string
	checkGenerate        bool
	checkJustification   string
)

var checkCmd = &cobra.Command{
	Use:   "check <candidate-artifact>",
	Short: "Compare an API surface against a baseline",
	Long: `Compare the candidate artifact's API surface against a baseline and
report every compatibility-relevant difference.

The baseline is either a local artifact (--baseline) or the published
version fetched from the configured package feed (--baseline-version).
Artifacts may be SCIP indexes (.scip), surface snapshots (.json,
.json.zst), or source directories.

Examples:
  apicompat check bin/release.scip --baseline dist/v1.2.0.json.zst
  apicompat check bin/release.scip --baseline-version 1.2.0
  apicompat check bin/release.scip --baseline old.scip --format sarif
  apicompat check bin/release.scip --baseline old.scip --generate-suppressions`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkBaseline, "baseline", "", "Baseline artifact path")
	checkCmd.Flags().StringVar(&checkBaselineVersion, "baseline-version", "", "Published version to fetch as baseline")
	checkCmd.Flags().StringVar(&checkMode, "mode", "", "Comparison mode: strict or binary (default from config)")
	checkCmd.Flags().StringVar(&checkSuppressions, "suppressions", "", "Suppression file path (default from config)")
	checkCmd.Flags().StringVar(&checkSeverities, "severities", "", "Severity override file path (default from config)")
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format (human, json, sarif)")
	checkCmd.Flags().BoolVar(&checkGenerate, "generate-suppressions", false, "Write suppression entries for every breaking change instead of failing")
	checkCmd.Flags().StringVar(&checkJustification, "justification", "", "Justification recorded on generated suppressions")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	if checkMode != "" {
		if checkMode != config.ModeStrict && checkMode != config.ModeBinary {
			fmt.Fprintf(os.Stderr, "Error: --mode must be 'strict' or 'binary'\n")
			os.Exit(1)
		}
		cfg.Mode = checkMode
	}
	logger := newLogger(cfg)

	// The audit trail is best-effort; a broken cache dir does not block
	// the comparison.
	var db *storage.DB
	if opened, err := storage.Open(cfg.Cache.Dir, logger); err == nil {
		db = opened
		defer db.Close()
	} else {
		logger.Warn("Running without baseline cache and audit trail", map[string]interface{}{
			"error": err.Error(),
		})
	}

	r := runner.New(cfg, logger, db)
	result, err := r.Run(context.Background(), runner.Options{
		BaselinePath:         checkBaseline,
		CandidatePath:        args[0],
		BaselineVersion:      checkBaselineVersion,
		SuppressionPath:      checkSuppressions,
		SeverityPath:         checkSeverities,
		GenerateSuppressions: checkGenerate,
		Justification:        checkJustification,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatReport(result.Report, OutputFormat(checkFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if result.Report.Failed() {
		os.Exit(1)
	}
}
