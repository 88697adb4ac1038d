// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     repl
// Description: Interactive line-oriented session over one interpreter
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package repl runs an interactive read-eval-print loop. All inputs of a
// session share one environment. Input that stops inside a statement is
// buffered behind a continuation prompt; a line reading "exit" in any
// case ends the session.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/internal/value"
)

// Status is the outcome of feeding one line
type Status int

const (
	// StatusDone means the buffered input was executed
	StatusDone Status = iota
	// StatusContinue means more input is needed
	StatusContinue
	// StatusExit means the session ended
	StatusExit
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusExit:
		return "exit"
	}
	return "done"
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	echoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFD7"))
)

// Options configures a Session
type Options struct {
	// Interpreter is created in interactive mode when nil
	Interpreter *interpreter.Interpreter

	// Output receives echoes and error messages. Program output goes to
	// the interpreter's own sink.
	Output io.Writer

	Prompt             string
	ContinuationPrompt string

	// Recover keeps the session alive after an error
	Recover bool

	// EchoAssignments prints "name = value" for top-level assignments
	EchoAssignments bool

	// EchoValues prints the value of a trailing non-assignment expression
	EchoValues bool

	Logger *rhllog.Logger
}

// DefaultOptions returns the interactive defaults
func DefaultOptions() Options {
	return Options{
		Prompt:             "> ",
		ContinuationPrompt: ". ",
		Recover:            true,
		EchoAssignments:    true,
		EchoValues:         true,
	}
}

// Session is one interactive run
type Session struct {
	opts    Options
	in      *interpreter.Interpreter
	out     io.Writer
	logger  *rhllog.Logger
	pending strings.Builder
	inputs  int
	errors  int
}

// NewSession creates a session
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = rhllog.GetDefault()
	}
	in := opts.Interpreter
	if in == nil {
		iopts := interpreter.DefaultOptions()
		iopts.Interactive = true
		iopts.Logger = logger
		in = interpreter.New(iopts)
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	return &Session{
		opts:   opts,
		in:     in,
		out:    out,
		logger: logger.WithField("component", "repl"),
	}
}

// Interpreter returns the session's interpreter
func (s *Session) Interpreter() *interpreter.Interpreter { return s.in }

// Prompt returns the prompt for the next line
func (s *Session) Prompt() string {
	if s.pending.Len() > 0 {
		return s.opts.ContinuationPrompt
	}
	return s.opts.Prompt
}

// Pending returns buffered input awaiting completion
func (s *Session) Pending() string { return s.pending.String() }

// Inputs counts completed inputs
func (s *Session) Inputs() int { return s.inputs }

// Errors counts inputs that failed
func (s *Session) Errors() int { return s.errors }

// Reset drops buffered input
func (s *Session) Reset() { s.pending.Reset() }

// Feed processes one line of input. With Recover unset, a failing input
// returns StatusExit together with the error.
func (s *Session) Feed(line string) (Status, error) {
	if s.pending.Len() == 0 {
		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, "exit") {
			return StatusExit, nil
		}
		if trimmed == "" {
			return StatusDone, nil
		}
	} else {
		s.pending.WriteByte('\n')
	}
	s.pending.WriteString(line)

	src := s.pending.String()
	res := s.in.Exec(src)
	if res.Incomplete {
		rest := src[res.Pending:]
		s.pending.Reset()
		s.pending.WriteString(rest)
		s.echo(res)
		return StatusContinue, nil
	}
	s.pending.Reset()
	s.inputs++

	if err := res.Err(); err != nil {
		s.errors++
		s.report(err)
		if !s.opts.Recover {
			return StatusExit, err
		}
		return StatusDone, nil
	}
	s.echo(res)
	return StatusDone, nil
}

// Run reads lines until exit, end of input or ctx is cancelled
func (s *Session) Run(ctx context.Context, r LineReader) error {
	s.logger.Debug("session started")
	defer func() {
		s.logger.Debug("session ended", rhllog.Fields{"inputs": s.inputs})
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine(s.Prompt())
		switch {
		case errors.Is(err, ErrInterrupted):
			s.Reset()
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return rhlerr.Wrap(err, "read input").WithCode(rhlerr.CodeIO)
		}

		status, err := s.Feed(line)
		if status != StatusContinue && strings.TrimSpace(line) != "" {
			r.AppendHistory(line)
		}
		if status == StatusExit {
			return err
		}
	}
}

func (s *Session) echo(res interpreter.Result) {
	if s.opts.EchoAssignments {
		for _, a := range res.Assignments() {
			fmt.Fprintln(s.out, echoStyle.Render(a.String()))
		}
	}
	if s.opts.EchoValues && !res.Incomplete && !res.LastAssigned && res.Value != nil {
		if _, null := res.Value.(value.Null); !null {
			fmt.Fprintln(s.out, echoStyle.Render(res.Value.String()))
		}
	}
}

func (s *Session) report(err error) {
	fmt.Fprintln(s.out, errorStyle.Render("error: "+err.Error()))
	s.logger.Debug("input failed", rhllog.Fields{"error_code": string(rhlerr.GetCode(err))})
}
