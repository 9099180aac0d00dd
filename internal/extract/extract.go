// Package extract produces surface snapshots from artifacts. Extraction
// is deterministic: the same artifact always yields the same canonically
// ordered surface. A malformed or unreadable artifact is fatal; the run
// never degrades to a partial comparison.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	comperrors "apicompat/internal/errors"
	"apicompat/internal/logging"
	"apicompat/internal/surface"
)

// Format identifies the artifact format an extractor consumes.
type Format string

const (
	// FormatSCIP is a protobuf SCIP index.
	FormatSCIP Format = "scip"
	// FormatSnapshot is a previously extracted surface, plain or
	// zstd-compressed.
	FormatSnapshot Format = "snapshot"
	// FormatSource is a source directory.
	FormatSource Format = "source"
)

// Extractor produces a surface from one artifact.
type Extractor interface {
	Extract(ctx context.Context, path string) (*surface.Surface, error)
}

// DetectFormat infers the artifact format from the path. Directories
// are source trees; files dispatch on extension.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", comperrors.New(
			comperrors.ExtractionFailed,
			fmt.Sprintf("artifact not readable: %s", path),
			err,
		)
	}
	if info.IsDir() {
		return FormatSource, nil
	}

	switch {
	case strings.HasSuffix(path, ".scip"):
		return FormatSCIP, nil
	case strings.HasSuffix(path, ".json"), strings.HasSuffix(path, ".json.zst"):
		return FormatSnapshot, nil
	}
	return "", comperrors.New(
		comperrors.ExtractionFailed,
		fmt.Sprintf("unrecognized artifact format: %s (want .scip, .json, .json.zst, or a source directory)", filepath.Base(path)),
		nil,
	)
}

// ForFormat returns the extractor for a format.
func ForFormat(format Format, logger *logging.Logger) (Extractor, error) {
	switch format {
	case FormatSCIP:
		return &scipExtractor{logger: logger}, nil
	case FormatSnapshot:
		return &snapshotExtractor{}, nil
	case FormatSource:
		return newSourceExtractor(logger)
	}
	return nil, comperrors.New(
		comperrors.InternalError,
		fmt.Sprintf("no extractor for format %q", format),
		nil,
	)
}

// Extract detects the artifact format, extracts the surface, and
// finishes with canonical ordering and the uniqueness invariant.
func Extract(ctx context.Context, path string, logger *logging.Logger) (*surface.Surface, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	ex, err := ForFormat(format, logger)
	if err != nil {
		return nil, err
	}

	s, err := ex.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	s.Sort()
	if err := s.Validate(); err != nil {
		return nil, comperrors.New(
			comperrors.ExtractionFailed,
			fmt.Sprintf("extracted surface from %s is inconsistent", path),
			err,
		)
	}

	if logger != nil {
		logger.Debug("Extracted surface", map[string]interface{}{
			"path":    path,
			"format":  string(format),
			"members": len(s.Members),
		})
	}
	return s, nil
}

// Pair holds the two surfaces a run compares.
type Pair struct {
	Baseline  *surface.Surface
	Candidate *surface.Surface
}

// ExtractPair extracts baseline and candidate concurrently. The two
// extractions share nothing; either failure aborts the run.
func ExtractPair(ctx context.Context, baselinePath, candidatePath string, logger *logging.Logger) (*Pair, error) {
	var (
		wg      sync.WaitGroup
		pair    Pair
		baseErr error
		candErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pair.Baseline, baseErr = Extract(ctx, baselinePath, logger)
	}()
	go func() {
		defer wg.Done()
		pair.Candidate, candErr = Extract(ctx, candidatePath, logger)
	}()
	wg.Wait()

	if baseErr != nil {
		return nil, baseErr
	}
	if candErr != nil {
		return nil, candErr
	}
	return &pair, nil
}
