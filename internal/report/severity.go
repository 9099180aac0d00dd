package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	comperrors "apicompat/internal/errors"
)

// SeverityMap holds per-diagnostic severity overrides keyed by
// diagnostic identifier.
type SeverityMap map[string]Severity

// severityFile is the on-disk shape:
//
//	severities:
//	  APC0004: warning
//	  APC0008: disabled
type severityFile struct {
	Severities map[string]string `yaml:"severities"`
}

// LoadSeverityFile reads per-diagnostic severity overrides. A missing
// or empty path yields no overrides; an unknown severity value is
// CONFIG_INVALID.
func LoadSeverityFile(path string) (SeverityMap, error) {
	if path == "" {
		return SeverityMap{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return SeverityMap{}, nil
	}
	if err != nil {
		return nil, comperrors.New(
			comperrors.ConfigInvalid,
			fmt.Sprintf("cannot read severity file %s", path),
			err,
		)
	}

	var f severityFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, comperrors.New(
			comperrors.ConfigInvalid,
			fmt.Sprintf("cannot parse severity file %s", path),
			err,
		)
	}

	m := make(SeverityMap, len(f.Severities))
	for id, raw := range f.Severities {
		sev := Severity(raw)
		switch sev {
		case SeverityError, SeverityWarning, SeverityDisabled:
			m[id] = sev
		default:
			return nil, comperrors.New(
				comperrors.ConfigInvalid,
				fmt.Sprintf("severity file %s: %s has unknown severity %q (want error, warning, or disabled)", path, id, raw),
				nil,
			)
		}
	}
	return m, nil
}
