package suppress

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	comperrors "apicompat/internal/errors"
)

// LoadFile reads a suppression file. A missing file is not an error;
// it yields an empty set. A malformed file is SUPPRESSION_INVALID.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &File{}, nil
	}

	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, comperrors.New(
			comperrors.SuppressionInvalid,
			fmt.Sprintf("cannot parse suppression file %s", path),
			err,
		)
	}

	for i := range f.Suppressions {
		s := &f.Suppressions[i]
		if s.DiagnosticID == "" || s.Target == "" {
			return nil, comperrors.New(
				comperrors.SuppressionInvalid,
				fmt.Sprintf("suppression entry %d in %s is missing diagnostic_id or target", i+1, path),
				nil,
			)
		}
	}

	return &f, nil
}

// SaveFile writes the suppression file, creating parent directories.
func SaveFile(path string, f *File) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := gotoml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal suppressions: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Stamp marks the file as generated now.
func (f *File) Stamp() {
	f.GeneratedAt = now().UTC().Format(time.RFC3339)
}
