package main

import (
	"encoding/json"
	"fmt"

	"apicompat/internal/report"
	"apicompat/internal/version"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           map[string]interface{}  `json:"properties,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID     string                 `json:"ruleId"`
	RuleIndex  int                    `json:"ruleIndex"`
	Level      string                 `json:"level,omitempty"`
	Message    SARIFMessage           `json:"message"`
	Locations  []SARIFLocation        `json:"locations,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// SARIFRegion identifies a region within a file.
type SARIFRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// FormatReportAsSARIF converts a run report to SARIF format.
func FormatReportAsSARIF(r *report.Report) (string, error) {
	// Build rules from diagnostics (deduplicated)
	var rules []SARIFRule
	ruleIndex := make(map[string]int)

	for _, d := range r.Diagnostics {
		if _, exists := ruleIndex[d.ID]; exists {
			continue
		}
		ruleIndex[d.ID] = len(rules)
		rules = append(rules, SARIFRule{
			ID: d.ID,
			ShortDescription: &SARIFMessage{
				Text: fmt.Sprintf("API compatibility rule %s", d.ID),
			},
			DefaultConfiguration: &SARIFRuleConfiguration{
				Level: severityToSARIFLevel(d.Severity),
			},
			Properties: map[string]interface{}{
				"tags": []string{"compatibility", "api-surface"},
			},
		})
	}

	results := make([]SARIFResult, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		result := SARIFResult{
			RuleID:    d.ID,
			RuleIndex: ruleIndex[d.ID],
			Level:     severityToSARIFLevel(d.Severity),
			Message:   SARIFMessage{Text: d.Message},
			Properties: map[string]interface{}{
				"target": d.Target,
				"binary": string(d.Binary),
				"source": string(d.Source),
			},
		}
		if d.FilePath != "" {
			result.Locations = []SARIFLocation{{
				PhysicalLocation: &SARIFPhysicalLocation{
					ArtifactLocation: &SARIFArtifactLocation{URI: d.FilePath},
					Region:           &SARIFRegion{StartLine: d.Line},
				},
			}}
		}
		results = append(results, result)
	}

	doc := SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:            "apicompat",
					Version:         version.Version,
					SemanticVersion: version.Version,
					Rules:           rules,
				},
			},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	return string(data), nil
}

// severityToSARIFLevel converts diagnostic severity to SARIF level.
func severityToSARIFLevel(s report.Severity) string {
	switch s {
	case report.SeverityError:
		return "error"
	case report.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
