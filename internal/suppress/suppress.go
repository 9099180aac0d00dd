// Package suppress filters classified differences against developer-
// authored suppression entries. A suppression is the explicit, auditable
// acknowledgement that a specific breaking change is intentional; it is
// never a global disable.
package suppress

import (
	"time"
)

// Suppression is one persisted acknowledgement, keyed by diagnostic
// identifier plus the member signature it applies to.
type Suppression struct {
	DiagnosticID  string `toml:"diagnostic_id" json:"diagnosticId"`
	Target        string `toml:"target" json:"target"`
	Justification string `toml:"justification,omitempty" json:"justification,omitempty"`
}

// key uniquely identifies the difference occurrence a suppression hits.
func (s *Suppression) key() string {
	return s.DiagnosticID + "|" + s.Target
}

// File is the persisted suppression file, long-lived and checked in
// alongside source.
type File struct {
	// GeneratedAt is set when entries were produced by baseline
	// acceptance rather than written by hand.
	GeneratedAt  string        `toml:"generated_at,omitempty" json:"generatedAt,omitempty"`
	Suppressions []Suppression `toml:"suppressions" json:"suppressions"`
}

// now is stubbed in tests.
var now = time.Now
