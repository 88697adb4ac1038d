// File: scanner.go
// Title: Source Scanner
// Description: Cursor over raw source text shared by all token handlers.
//              Tracks byte offset, line and column and remembers the last
//              significant token so handlers can resolve context such as
//              a leading '-'.
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
)

// Scanner is the read cursor handed to handlers
type Scanner struct {
	src  string
	pos  int
	line int
	col  int

	prev    token.Token
	hasPrev bool

	payloads payloadCache
}

func newScanner(src string, payloads payloadCache) *Scanner {
	return &Scanner{src: src, line: 1, col: 1, payloads: payloads}
}

// Offset is the current byte offset
func (s *Scanner) Offset() int { return s.pos }

// Position returns the current source position
func (s *Scanner) Position() token.Position {
	return token.Position{Offset: s.pos, Line: s.line, Col: s.col}
}

// AtEnd reports whether all input has been consumed
func (s *Scanner) AtEnd() bool { return s.pos >= len(s.src) }

// Peek returns the byte at pos+offset, or 0 past the end
func (s *Scanner) Peek(offset int) byte {
	i := s.pos + offset
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// PeekRune decodes the rune at pos+offset
func (s *Scanner) PeekRune(offset int) (rune, int) {
	i := s.pos + offset
	if i < 0 || i >= len(s.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.src[i:])
}

// Rest returns the unconsumed input
func (s *Scanner) Rest() string {
	if s.AtEnd() {
		return ""
	}
	return s.src[s.pos:]
}

// HasPrefix reports whether the unconsumed input starts with p
func (s *Scanner) HasPrefix(p string) bool {
	return strings.HasPrefix(s.Rest(), p)
}

// Advance moves the cursor n bytes forward and returns the skipped text.
// The cursor may be moved past the end; the lexer treats that as a fault
// of the handler that did it.
func (s *Scanner) Advance(n int) string {
	start := s.pos
	end := start + n
	for i := start; i < end && i < len(s.src); i++ {
		c := s.src[i]
		switch {
		case c == '\n':
			s.line++
			s.col = 1
		case c&0xC0 != 0x80:
			s.col++
		}
	}
	s.pos = end
	if end > len(s.src) {
		end = len(s.src)
	}
	return s.src[start:end]
}

// Previous returns the last significant (non-comment) token, if any
func (s *Scanner) Previous() (token.Token, bool) {
	return s.prev, s.hasPrev
}

// LineBreakSincePrevious reports whether a newline separates the cursor
// from the end of the previous significant token
func (s *Scanner) LineBreakSincePrevious() bool {
	if !s.hasPrev {
		return false
	}
	end := s.prev.Pos.Offset + s.prev.Len
	if end > s.pos {
		return false
	}
	return strings.ContainsRune(s.src[end:s.pos], '\n')
}

// Payload returns the decoded payload for (kind, text), consulting the
// lexer's token cache first.
func (s *Scanner) Payload(kind token.Kind, text string, decode func(string) (value.Value, error)) (value.Value, error) {
	return s.payloads.get(kind, text, decode)
}

func (s *Scanner) skipSpace() {
	for !s.AtEnd() {
		r, size := s.PeekRune(0)
		if !unicode.IsSpace(r) {
			return
		}
		s.Advance(size)
	}
}

func (s *Scanner) remember(t token.Token) {
	if t.Kind == token.Comment {
		return
	}
	s.prev = t
	s.hasPrev = true
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// wordAt returns the identifier-shaped word starting at the cursor
func (s *Scanner) wordAt() string {
	rest := s.Rest()
	n := 0
	for n < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[n:])
		if (n == 0 && !isIdentStart(r)) || !isIdentPart(r) {
			break
		}
		n += size
	}
	return rest[:n]
}
