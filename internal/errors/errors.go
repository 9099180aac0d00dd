// Package errors defines the stable error taxonomy for apicompat.
// Extraction and fetch failures are fatal and abort the run; breaking
// changes surface as diagnostics, never as errors from this package.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ExtractionFailed indicates a malformed or unreadable artifact
	ExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	// FetchFailed indicates the comparison baseline could not be retrieved
	FetchFailed ErrorCode = "FETCH_FAILED"
	// BaselineNotFound indicates a definitive not-found for the baseline version
	BaselineNotFound ErrorCode = "BASELINE_NOT_FOUND"
	// SuppressionInvalid indicates the suppression file could not be parsed
	SuppressionInvalid ErrorCode = "SUPPRESSION_INVALID"
	// ConfigInvalid indicates invalid run configuration
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// CompatError represents an apicompat error with code, message, and suggestions
type CompatError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new CompatError
func New(code ErrorCode, message string, cause error) *CompatError {
	return &CompatError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *CompatError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CompatError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CompatError) WithDetails(details interface{}) *CompatError {
	e.Details = details
	return e
}

// IsCode reports whether err is a CompatError with the given code.
func IsCode(err error, code ErrorCode) bool {
	ce, ok := err.(*CompatError)
	return ok && ce.Code == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ExtractionFailed: {
		{
			Type:        RunCommand,
			Command:     "apicompat extract --artifact=<path> --format=json",
			Safe:        true,
			Description: "Verify the artifact can be read as a surface snapshot",
		},
	},
	BaselineNotFound: {
		{
			Type:        RunCommand,
			Command:     "apicompat check --no-baseline-fetch",
			Safe:        true,
			Description: "Disable comparison against the published baseline, or pin an existing version",
		},
	},
	SuppressionInvalid: {
		{
			Type:        RunCommand,
			Command:     "apicompat suppressions list",
			Safe:        true,
			Description: "Validate the suppression file",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
