package extract

import (
	"context"
	"fmt"

	comperrors "apicompat/internal/errors"
	"apicompat/internal/surface"
)

// snapshotExtractor reads a previously extracted surface snapshot,
// plain JSON or zstd-compressed.
type snapshotExtractor struct{}

func (e *snapshotExtractor) Extract(ctx context.Context, path string) (*surface.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := surface.ReadSnapshot(path)
	if err != nil {
		return nil, comperrors.New(
			comperrors.ExtractionFailed,
			fmt.Sprintf("cannot read surface snapshot %s", path),
			err,
		)
	}
	return s, nil
}
