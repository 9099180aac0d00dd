package surface

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// SchemaVersion is the surface snapshot schema version.
const SchemaVersion = 1

// snapshot is the on-disk envelope around a Surface.
type snapshot struct {
	SchemaVersion int      `json:"snapshot_schema_version"`
	Surface       *Surface `json:"surface"`
}

// ToJSON serializes the surface to canonical indented JSON. The surface
// is sorted first so equal surfaces always produce equal bytes.
func (s *Surface) ToJSON() ([]byte, error) {
	s.Sort()
	return json.MarshalIndent(snapshot{SchemaVersion: SchemaVersion, Surface: s}, "", "  ")
}

// FromJSON deserializes a surface snapshot.
func FromJSON(data []byte) (*Surface, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Surface == nil {
		return nil, fmt.Errorf("snapshot has no surface")
	}
	if snap.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("snapshot schema version %d is newer than supported version %d",
			snap.SchemaVersion, SchemaVersion)
	}
	snap.Surface.Sort()
	return snap.Surface, nil
}

// Digest returns the blake2b-256 digest of the canonical JSON encoding,
// hex-encoded. Used as the snapshot identity for cache validation.
func (s *Surface) Digest() (string, error) {
	data, err := s.ToJSON()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteSnapshot writes the surface to path. Paths ending in .zst are
// zstd-compressed.
func (s *Surface) WriteSnapshot(path string) error {
	data, err := s.ToJSON()
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, ".zst") {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return os.WriteFile(path, data, 0644)
}

// ReadSnapshot reads a surface snapshot from path, transparently
// decompressing .zst files.
func ReadSnapshot(path string) (*Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
		}
	}

	return FromJSON(data)
}
