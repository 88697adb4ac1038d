// Package: error
// Title: RHL Error Handling Framework
// Description: Structured errors carrying a code, a severity, an optional
//              source position and free-form details. Interpreter failures
//              (lex, syntax, type, arithmetic, ...) and infrastructure
//              failures (config, I/O) share this one type so callers can
//              branch on codes instead of on message text.
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-18 v0.2.0: Language error codes, source positions, errors.As lookups
// - 2026-10-18 v0.3.0: Dropped stack traces and timestamps

// Package error provides the structured error type used throughout RHL.
//
// Usage:
//
//	import rhlerr "github.com/msto63/rhl/foundation/core/error"
//
//	err := rhlerr.New("division by zero").
//		WithCode(rhlerr.CodeArithmetic).
//		WithPosition(3, 7)
//
//	if rhlerr.HasCode(err, rhlerr.CodeArithmetic) {
//		// ...
//	}
package error
