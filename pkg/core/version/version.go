// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     version
// Description: Central version information for the toolkit
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package version

// Version constants for RHL components
const (
	// Toolkit release
	Toolkit = "0.3.0"

	// Language level accepted by the interpreter
	Language = "1.0.0"

	// LSP server version reported in initialize
	LanguageServer = "0.1.0"
)

// Build metadata, set via -ldflags at release time
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a component name
func ComponentVersion(name string) string {
	switch name {
	case "language":
		return Language
	case "lsp":
		return LanguageServer
	default:
		return Toolkit
	}
}
