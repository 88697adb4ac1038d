// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers and profiling helpers
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/google/uuid"

	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name shown in text output
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: text)
	Format string

	// Destination; defaults to stderr
	Output io.Writer

	// Correlation ID attached to every entry; empty generates a fresh run ID
	RunID string

	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "text",
	}
}

// NewLogger creates a foundation logger tagged with a run ID
func NewLogger(cfg LoggerConfig) *rhllog.Logger {
	level, err := rhllog.ParseLevel(cfg.Level)
	if err != nil {
		level = rhllog.LevelInfo
	}
	format, err := rhllog.ParseFormat(cfg.Format)
	if err != nil {
		format = rhllog.FormatText
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}

	return rhllog.NewWithConfig(rhllog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.EnableCaller,
	}).WithCorrelationID(runID)
}

// FromConfig builds the process logger from the loaded configuration.
// verbose forces debug level.
func FromConfig(cfg *config.Config, verbose bool, output io.Writer) *rhllog.Logger {
	lc := DefaultLoggerConfig("rhl")
	lc.Level = cfg.General.LogLevel
	lc.Format = cfg.General.LogFormat
	lc.Output = output
	if verbose {
		lc.Level = "debug"
		lc.EnableCaller = true
	}
	return NewLogger(lc)
}

// NewRunID returns a fresh identifier for one CLI invocation
func NewRunID() string {
	return uuid.NewString()
}
