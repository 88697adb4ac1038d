// Package: log
// Title: RHL Structured Logging
// Description: A small structured logger with immutable-by-clone context
//              (name, fields, correlation ID), four output formats and
//              operation timers. Log output goes to stderr by default so it
//              never mixes with script output on stdout.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-18 v0.2.0: Dropped async mode and request/user context, stderr default

// Package log provides structured, leveled logging for RHL.
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
//	lexLog := logger.WithField("component", "lexer")
//	lexLog.Debug("token cache miss", log.Fields{"text": "while"})
//
//	timer := lexLog.StartTimer("tokenize")
//	defer timer.Stop()
package log
