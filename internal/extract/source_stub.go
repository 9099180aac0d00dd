//go:build !cgo

package extract

import (
	comperrors "apicompat/internal/errors"
	"apicompat/internal/logging"
)

// Source extraction depends on tree-sitter, which needs cgo. Builds
// without it still handle SCIP indexes and snapshots.
func newSourceExtractor(logger *logging.Logger) (Extractor, error) {
	return nil, comperrors.New(
		comperrors.ExtractionFailed,
		"source directory extraction requires a cgo-enabled build; extract from a SCIP index or surface snapshot instead",
		nil,
	)
}
