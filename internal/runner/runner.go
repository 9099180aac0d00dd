// Package runner orchestrates a compatibility run: extract both
// surfaces, diff, classify, filter through suppressions, and report.
// The run is a state machine that only moves forward; extraction
// failure aborts it before any comparison state exists.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"apicompat/internal/classify"
	"apicompat/internal/compare"
	"apicompat/internal/config"
	comperrors "apicompat/internal/errors"
	"apicompat/internal/extract"
	"apicompat/internal/fetch"
	"apicompat/internal/logging"
	"apicompat/internal/report"
	"apicompat/internal/storage"
	"apicompat/internal/suppress"
	"apicompat/internal/surface"
)

// State names the pipeline stage a run has reached.
type State string

const (
	StateExtracted  State = "extracted"
	StateDiffed     State = "diffed"
	StateClassified State = "classified"
	StateFiltered   State = "filtered"
	StateReported   State = "reported"
)

// Options configures a single run. Paths given here win over the
// config file.
type Options struct {
	// BaselinePath is the baseline artifact. Empty means fetch the
	// configured published version from the feed.
	BaselinePath  string
	CandidatePath string

	// BaselineVersion overrides the configured published version when
	// fetching.
	BaselineVersion string

	SuppressionPath string
	SeverityPath    string

	// GenerateSuppressions writes suppression entries covering every
	// breaking difference instead of failing on them.
	GenerateSuppressions bool
	Justification        string
}

// Result is the outcome of a completed run.
type Result struct {
	State   State
	Report  *report.Report
	Outcome suppress.Outcome
	RunID   string
}

// Runner executes compatibility runs. Each run resolves configuration
// from the value it was built with; a process may hold several runners.
type Runner struct {
	cfg    *config.Config
	logger *logging.Logger
	db     *storage.DB
}

// New creates a runner. db may be nil; the run then skips the baseline
// cache and audit trail.
func New(cfg *config.Config, logger *logging.Logger, db *storage.DB) *Runner {
	return &Runner{cfg: cfg, logger: logger, db: db}
}

// Run executes the pipeline end to end.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if !r.cfg.Enabled {
		return nil, comperrors.New(
			comperrors.ConfigInvalid,
			"compatibility checking is disabled in configuration",
			nil,
		)
	}

	started := time.Now().UTC()

	baselinePath := opts.BaselinePath
	if baselinePath == "" {
		resolved, err := r.resolveBaseline(ctx, opts.BaselineVersion)
		if err != nil {
			return nil, err
		}
		baselinePath = resolved
	}

	pair, err := extract.ExtractPair(ctx, baselinePath, opts.CandidatePath, r.logger)
	if err != nil {
		return nil, err
	}
	result := &Result{State: StateExtracted}

	diffs := compare.Diff(pair.Baseline, pair.Candidate)
	result.State = StateDiffed

	items := classify.ClassifyAll(diffs)
	result.State = StateClassified

	strict := r.cfg.Mode == config.ModeStrict

	suppressionPath := opts.SuppressionPath
	if suppressionPath == "" {
		suppressionPath = r.cfg.Suppression.Path
	}

	if opts.GenerateSuppressions || r.cfg.Suppression.AutoGenerate {
		generated := suppress.Generate(items, strict, opts.Justification)
		if err := suppress.SaveFile(suppressionPath, generated); err != nil {
			return nil, fmt.Errorf("failed to write suppression file: %w", err)
		}
		if r.logger != nil {
			r.logger.Info("Generated suppression entries", map[string]interface{}{
				"path":    suppressionPath,
				"entries": len(generated.Suppressions),
			})
		}
	}

	file, err := suppress.LoadFile(suppressionPath)
	if err != nil {
		return nil, err
	}
	result.Outcome = suppress.Apply(items, file)
	result.State = StateFiltered

	severityPath := opts.SeverityPath
	if severityPath == "" {
		severityPath = r.cfg.Severity.Path
	}
	overrides, err := report.LoadSeverityFile(severityPath)
	if err != nil {
		return nil, err
	}

	result.Report = report.Build(result.Outcome, pair.Baseline, pair.Candidate, strict, overrides)
	result.State = StateReported

	r.audit(result, pair.Baseline, pair.Candidate, started)
	return result, nil
}

// resolveBaseline produces a local path for the published baseline,
// from the cache when the artifact is still intact, otherwise from the
// feed.
func (r *Runner) resolveBaseline(ctx context.Context, versionOverride string) (string, error) {
	bc := r.cfg.Baseline
	if !bc.Enabled {
		return "", comperrors.New(
			comperrors.ConfigInvalid,
			"no baseline artifact given and baseline fetching is disabled",
			nil,
		)
	}

	version := versionOverride
	if version == "" {
		version = bc.Version
	}
	if bc.PackageID == "" || version == "" {
		return "", comperrors.New(
			comperrors.ConfigInvalid,
			"baseline fetching requires baseline.packageId and a version",
			nil,
		)
	}

	if path, ok := r.cachedBaseline(bc.PackageID, version); ok {
		return path, nil
	}

	client := fetch.NewClient(bc.FeedURL, r.logger,
		fetch.WithTimeout(time.Duration(bc.TimeoutMs)*time.Millisecond),
		fetch.WithMaxRetries(bc.MaxRetries),
	)
	data, err := client.FetchBaseline(ctx, bc.PackageID, version)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.cfg.Cache.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	path := filepath.Join(r.cfg.Cache.Dir, fmt.Sprintf("%s-%s.json", bc.PackageID, version))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to cache baseline artifact: %w", err)
	}

	if r.db != nil {
		digest := ""
		if s, serr := surface.FromJSON(data); serr == nil {
			digest, _ = s.Digest()
		}
		if err := r.db.PutBaseline(&storage.Baseline{
			PackageID: bc.PackageID,
			Version:   version,
			Path:      path,
			Digest:    digest,
		}); err != nil && r.logger != nil {
			r.logger.Warn("Failed to record baseline in cache index", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return path, nil
}

// cachedBaseline returns a cache hit only when the artifact on disk
// still hashes to the recorded digest.
func (r *Runner) cachedBaseline(packageID, version string) (string, bool) {
	if r.db == nil {
		return "", false
	}
	b, err := r.db.GetBaseline(packageID, version)
	if err != nil || b == nil {
		return "", false
	}

	s, err := surface.ReadSnapshot(b.Path)
	if err != nil {
		return "", false
	}
	digest, err := s.Digest()
	if err != nil || digest != b.Digest {
		if r.logger != nil {
			r.logger.Warn("Cached baseline failed digest validation, refetching", map[string]interface{}{
				"package": packageID,
				"version": version,
			})
		}
		return "", false
	}
	return b.Path, true
}

// audit records the run in the audit trail; failures there never fail
// the run itself.
func (r *Runner) audit(result *Result, baseline, candidate *surface.Surface, started time.Time) {
	if r.db == nil {
		return
	}

	outcome := storage.RunPassed
	if result.Report.Failed() {
		outcome = storage.RunFailed
	}
	run := &storage.Run{
		BaselineRef:  baseline.Ref(),
		CandidateRef: candidate.Ref(),
		Mode:         result.Report.Mode,
		Differences:  result.Report.Summary.Differences,
		Errors:       result.Report.Summary.Errors,
		Warnings:     result.Report.Summary.Warnings,
		Suppressed:   result.Report.Summary.Suppressed,
		Stale:        result.Report.Summary.Stale,
		Result:       outcome,
		StartedAt:    started,
	}
	if err := r.db.RecordRun(run); err != nil {
		if r.logger != nil {
			r.logger.Warn("Failed to record run audit entry", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}
	result.RunID = run.ID
}
