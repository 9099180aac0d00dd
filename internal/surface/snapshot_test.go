package surface

import (
	"path/filepath"
	"testing"
)

func sampleSurface() *Surface {
	return &Surface{
		Name:    "Contoso.Net",
		Version: "1.2.0",
		Members: []Member{
			method("Contoso.Client", "Connect", "string"),
			{Name: "Client", DeclaringType: "Contoso", Kind: KindType, Accessibility: AccessPublic},
			{Name: "MaxRetries", DeclaringType: "Contoso.Client", Kind: KindField,
				Accessibility: AccessPublic, IsConst: true, ConstValue: "3"},
		},
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"surface.json", "surface.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			src := sampleSurface()

			if err := src.WriteSnapshot(path); err != nil {
				t.Fatalf("WriteSnapshot failed: %v", err)
			}

			got, err := ReadSnapshot(path)
			if err != nil {
				t.Fatalf("ReadSnapshot failed: %v", err)
			}
			if got.Name != src.Name || got.Version != src.Version {
				t.Errorf("identity = %s %s, want %s %s", got.Name, got.Version, src.Name, src.Version)
			}
			if len(got.Members) != len(src.Members) {
				t.Fatalf("member count = %d, want %d", len(got.Members), len(src.Members))
			}
		})
	}
}

func TestDigestStability(t *testing.T) {
	a := sampleSurface()
	b := sampleSurface()
	// Same members, different initial order.
	b.Members[0], b.Members[1] = b.Members[1], b.Members[0]

	da, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	db, err := b.Digest()
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if da != db {
		t.Error("digest should not depend on member order before canonicalization")
	}

	b.Members = append(b.Members, method("Contoso.Client", "Close"))
	db2, err := b.Digest()
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if db2 == da {
		t.Error("digest should change when the surface changes")
	}
}

func TestFromJSONRejectsNewerSchema(t *testing.T) {
	if _, err := FromJSON([]byte(`{"snapshot_schema_version": 99, "surface": {"name": "X", "version": "1", "members": []}}`)); err == nil {
		t.Error("FromJSON should reject snapshots with a newer schema version")
	}
	if _, err := FromJSON([]byte(`{"snapshot_schema_version": 1}`)); err == nil {
		t.Error("FromJSON should reject snapshots without a surface")
	}
	if _, err := FromJSON([]byte(`not json`)); err == nil {
		t.Error("FromJSON should reject malformed input")
	}
}
