// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels attached to errors. The logger maps them
//              onto log levels when an error is logged.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-18 v0.2.0: Severity mapping for language error codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow is a fault in user input, e.g. a script error
	SeverityLow Severity = iota

	// SeverityMedium is the default for untyped errors
	SeverityMedium

	// SeverityHigh is a failure of the tool itself, e.g. unreadable config
	SeverityHigh

	// SeverityCritical is an internal invariant violation
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeIO, CodeConfigInvalid:
		return SeverityHigh
	case CodeLex, CodeSyntax, CodeType, CodeUndefinedVariable,
		CodeUnknownOperator, CodeUnknownFunction, CodeUnknownKeyword,
		CodeArithmetic, CodeArgument, CodeEndOfInput, CodeStepLimit, CodeTextLimit,
		CodeInvalidInput, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
