// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify interpreter and
//              infrastructure failures. Codes are stable strings so they
//              can be matched in tests, logs and LSP diagnostics.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-18 v0.2.0: Replaced platform codes with language error taxonomy

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeIO           Code = "IO_ERROR"

	// Configuration
	CodeConfigInvalid Code = "CONFIG_INVALID"

	// Language errors
	CodeLex               Code = "LEX_ERROR"
	CodeSyntax            Code = "SYNTAX_ERROR"
	CodeType              Code = "TYPE_ERROR"
	CodeUndefinedVariable Code = "UNDEFINED_VARIABLE"
	CodeUnknownOperator   Code = "UNKNOWN_OPERATOR"
	CodeUnknownFunction   Code = "UNKNOWN_FUNCTION"
	CodeUnknownKeyword    Code = "UNKNOWN_KEYWORD"
	CodeArithmetic        Code = "ARITHMETIC_ERROR"
	CodeArgument          Code = "ARGUMENT_ERROR"

	// Execution control
	CodeEndOfInput Code = "END_OF_INPUT"
	CodeStepLimit  Code = "STEP_LIMIT"
	CodeTextLimit  Code = "TEXT_LIMIT"
)

var knownCodes = map[Code]string{
	CodeUnknown:           "generic",
	CodeInternal:          "generic",
	CodeNotFound:          "generic",
	CodeInvalidInput:      "generic",
	CodeIO:                "generic",
	CodeConfigInvalid:     "config",
	CodeLex:               "language",
	CodeSyntax:            "language",
	CodeType:              "language",
	CodeUndefinedVariable: "language",
	CodeUnknownOperator:   "language",
	CodeUnknownFunction:   "language",
	CodeUnknownKeyword:    "language",
	CodeArithmetic:        "language",
	CodeArgument:          "language",
	CodeEndOfInput:        "execution",
	CodeStepLimit:         "execution",
	CodeTextLimit:         "execution",
}

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is one of the defined codes
func (c Code) IsValid() bool {
	_, ok := knownCodes[c]
	return ok
}

// Category returns the category of the error code
func (c Code) Category() string {
	if cat, ok := knownCodes[c]; ok {
		return cat
	}
	return "unknown"
}

