// File: lexer.go
// Title: RHL Lexical Analyzer
// Description: Drives the handler registry over raw source text and
//              produces a token sequence terminated by EOF. Vocabulary
//              (operators and keywords) comes from the grammar the lexer
//              is built for; decoded payloads are memoized in a bounded
//              LRU cache.
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package lexer

import (
	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/grammar"
	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
	"github.com/msto63/rhl/pkg/core/cache"
	"github.com/msto63/rhl/pkg/core/logging"
)

// Options configures a Lexer
type Options struct {
	// Grammar supplies operator symbols and keyword names; nil uses
	// grammar.Default()
	Grammar *grammar.Grammar

	// WordBoundary requires keywords and boolean literals to be whole words
	WordBoundary bool

	// CacheSize bounds the payload cache; 0 disables it
	CacheSize int

	Logger *rhllog.Logger
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{WordBoundary: true, CacheSize: cache.DefaultConfig().MaxItems}
}

// Lexer turns source text into tokens. A Lexer is not safe for
// concurrent use by multiple goroutines.
type Lexer struct {
	registry *Registry
	payloads payloadCache
	logger   *rhllog.Logger
}

// New builds a lexer with the standard handler chain
func New(opts Options) *Lexer {
	g := opts.Grammar
	if g == nil {
		g = grammar.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = rhllog.GetDefault()
	}

	r := NewRegistry()
	r.Register(commentHandler{})
	r.Register(numberHandler{})
	r.Register(stringHandler{})
	r.Register(parenHandler{})
	r.Register(operatorHandler{ops: g.Operators})
	r.Register(punctHandler{name: CommaHandler, char: ',', kind: token.Comma})
	r.Register(punctHandler{name: SemicolonHandler, char: ';', kind: token.Semicolon})
	r.Register(wordHandler{
		name:     BooleanHandler,
		kind:     token.Boolean,
		boundary: opts.WordBoundary,
		words:    func() []string { return booleanWords },
		decode:   decodeBool,
	})
	r.Register(wordHandler{
		name:     KeywordHandler,
		kind:     token.Keyword,
		boundary: opts.WordBoundary,
		words:    g.KeywordNames,
		decode:   textPayload,
	})
	r.Register(identifierHandler{})

	return &Lexer{
		registry: r,
		payloads: payloadCache{c: cache.New[payloadKey, value.Value](cache.Config{MaxItems: opts.CacheSize})},
		logger:   logger.WithField("component", "lexer"),
	}
}

// Registry exposes the handler chain for extension
func (l *Lexer) Registry() *Registry { return l.registry }

// CacheStats reports payload cache usage
func (l *Lexer) CacheStats() cache.Stats { return l.payloads.c.Stats() }

// Tokenize scans text completely. On error the tokens recognized so far
// are returned together with the error; the slice is then not
// EOF-terminated.
func (l *Lexer) Tokenize(text string) ([]token.Token, error) {
	var tokens []token.Token
	err := logging.Profile(l.logger, "tokenize", func() error {
		var err error
		tokens, err = l.scan(text)
		return err
	})
	if err == nil {
		stats := l.payloads.c.Stats()
		l.logger.Debug("tokenized", rhllog.Fields{
			"tokens":         len(tokens),
			"bytes":          len(text),
			"cache_hits":     stats.Hits,
			"cache_hit_rate": stats.HitRate(),
		})
	}
	return tokens, err
}

func (l *Lexer) scan(text string) ([]token.Token, error) {
	s := newScanner(text, l.payloads)
	var tokens []token.Token

	for {
		s.skipSpace()
		if s.AtEnd() {
			tokens = append(tokens, token.Token{Kind: token.EOF, Pos: s.Position()})
			return tokens, nil
		}

		h := l.registry.dispatch(s)
		if h == nil {
			r, _ := s.PeekRune(0)
			return tokens, lexError(s, "unexpected character '%c'", r)
		}

		start := s.Position()
		tok, err := h.Consume(s)
		if err != nil {
			return tokens, err
		}
		switch {
		case s.Offset() > len(text):
			return tokens, rhlerr.New("handler '"+h.Name()+"' advanced past end of input").
				WithCode(rhlerr.CodeInternal).WithPosition(start.Line, start.Col)
		case s.Offset() <= start.Offset:
			return tokens, rhlerr.New("handler '"+h.Name()+"' made no progress").
				WithCode(rhlerr.CodeInternal).WithPosition(start.Line, start.Col)
		}

		tok.Pos = start
		tok.Len = s.Offset() - start.Offset
		tokens = append(tokens, tok)
		s.remember(tok)
	}
}

type payloadKey struct {
	kind token.Kind
	text string
}

type payloadCache struct {
	c *cache.Cache[payloadKey, value.Value]
}

func (p payloadCache) get(kind token.Kind, text string, decode func(string) (value.Value, error)) (value.Value, error) {
	if p.c == nil {
		return decode(text)
	}
	return p.c.GetOrSet(payloadKey{kind, text}, func() (value.Value, error) {
		return decode(text)
	})
}
