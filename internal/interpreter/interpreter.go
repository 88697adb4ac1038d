// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     interpreter
// Description: Fused parse-and-execute engine and top-level driver loop
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package interpreter evaluates RHL programs. There is no syntax tree:
// statements are evaluated while they are parsed, and loops re-parse
// their condition and body by moving the token cursor back. Each
// Interpreter owns its grammar tables and its environment, so instances
// never share state.
//
// Usage:
//
//	in := interpreter.New(interpreter.Options{Output: os.Stdout})
//	res := in.Exec(`x = 2 ^ 3; println("x = {}", x)`)
//	if err := res.Err(); err != nil {
//	    ...
//	}
package interpreter

import (
	"io"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/env"
	"github.com/msto63/rhl/internal/grammar"
	"github.com/msto63/rhl/internal/lexer"
	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/pkg/core/config"
	"github.com/msto63/rhl/pkg/core/logging"
)

// Options configures an Interpreter. Zero values select defaults.
type Options struct {
	Grammar *grammar.Grammar
	Env     *env.Environment

	// Output receives println output; nil discards it
	Output io.Writer
	Logger *rhllog.Logger

	// MaxSteps bounds statements plus loop iterations per run; 0 is unlimited
	MaxSteps int

	// MaxTextLen bounds the byte length of text built by an operator;
	// 0 is unlimited
	MaxTextLen int

	WordBoundary bool
	CacheSize    int

	// Interactive reports input that stops mid-statement as Incomplete
	// instead of failing with a syntax error.
	Interactive bool
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	lo := lexer.DefaultOptions()
	return Options{WordBoundary: lo.WordBoundary, CacheSize: lo.CacheSize}
}

// OptionsFromConfig derives options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxSteps:     cfg.Interpreter.MaxSteps,
		WordBoundary: cfg.Lexer.WordBoundary,
		CacheSize:    cfg.Lexer.TokenCacheSize,
	}
}

// Interpreter runs token sequences against one environment
type Interpreter struct {
	grammar     *grammar.Grammar
	env         *env.Environment
	lexer       *lexer.Lexer
	output      io.Writer
	logger      *rhllog.Logger
	maxSteps    int
	maxTextLen  int
	interactive bool
}

// New creates an interpreter
func New(opts Options) *Interpreter {
	g := opts.Grammar
	if g == nil {
		g = grammar.Default()
	}
	e := opts.Env
	if e == nil {
		e = env.New()
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = rhllog.GetDefault()
	}

	return &Interpreter{
		grammar: g,
		env:     e,
		lexer: lexer.New(lexer.Options{
			Grammar:      g,
			WordBoundary: opts.WordBoundary,
			CacheSize:    opts.CacheSize,
			Logger:       logger,
		}),
		output:      out,
		logger:      logger.WithField("component", "interpreter"),
		maxSteps:    opts.MaxSteps,
		maxTextLen:  opts.MaxTextLen,
		interactive: opts.Interactive,
	}
}

// Grammar returns the interpreter's dispatch tables
func (in *Interpreter) Grammar() *grammar.Grammar { return in.grammar }

// Env returns the interpreter's environment
func (in *Interpreter) Env() *env.Environment { return in.env }

// Tokenize lexes text with the interpreter's vocabulary
func (in *Interpreter) Tokenize(text string) ([]token.Token, error) {
	return in.lexer.Tokenize(text)
}

// Exec tokenizes and runs text
func (in *Interpreter) Exec(text string) Result {
	tokens, err := in.Tokenize(text)
	if err != nil {
		if in.interactive && unterminated(err) {
			return Result{Incomplete: true}
		}
		return Result{Diagnostics: []*rhlerr.Error{diagnostic(err)}}
	}
	return in.Run(tokens)
}

// Run executes top-level statements until EOF or the first error.
// Comment tokens are ignored.
func (in *Interpreter) Run(tokens []token.Token) Result {
	var res Result
	out := &effectWriter{dst: in.output, result: &res}
	p := newParser(in, tokens, out)

	err := logging.Profile(in.logger, "run", func() error {
		return in.drive(p, &res)
	})
	out.flush()
	res.Steps = p.steps

	if err != nil {
		res.Diagnostics = append(res.Diagnostics, diagnostic(err))
	}
	if in.logger.IsLevelEnabled(rhllog.LevelDebug) {
		in.logger.Debug("run finished", rhllog.Fields{
			"steps":      res.Steps,
			"effects":    len(res.Effects),
			"incomplete": res.Incomplete,
			"failed":     err != nil,
		})
	}
	return res
}

// drive is the top-level loop: one statement at a time until EOF
func (in *Interpreter) drive(p *parser, res *Result) error {
	for !p.atEOF() {
		if p.Current().Kind == token.Semicolon {
			p.Advance()
			continue
		}

		start := p.Current()
		if err := p.Tick(); err != nil {
			return err
		}
		v, asg, err := p.statement()
		if err != nil {
			if !isPartial(err) {
				return err
			}
			if in.interactive {
				res.Incomplete = true
				res.Pending = start.Pos.Offset
				return nil
			}
			e, _ := rhlerr.As(err)
			line, col, _ := e.Position()
			return grammar.Errorf(rhlerr.CodeSyntax, "unexpected end of input: %s", e.Message()).
				WithPosition(line, col)
		}

		res.Value = v
		res.LastAssigned = asg != nil
		if asg != nil {
			res.Effects = append(res.Effects, Effect{Kind: AssignmentEffect, Assignment: asg})
		}
	}
	return nil
}

func diagnostic(err error) *rhlerr.Error {
	if e, ok := rhlerr.As(err); ok {
		return e
	}
	return rhlerr.Wrap(err, "run failed").WithCode(rhlerr.CodeInternal)
}
