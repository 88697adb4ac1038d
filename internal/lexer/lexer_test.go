// File: lexer_test.go
// Title: RHL Lexer Unit Tests
// Description: Tests tokenization of every literal category, operator
//              munching, comment forms, position tracking, the keyword
//              word-boundary option, error cases and the payload cache.
// Version: v0.1.1
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial test suite
// - 2026-10-18 v0.1.1: Sign handling at line starts, integer bounds by position

package lexer

import (
	"bytes"
	"strings"
	"testing"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/grammar"
	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
)

func tok(k token.Kind, v value.Value) token.Token {
	return token.Token{Kind: k, Value: v}
}

func paren(sym string) token.Token {
	return token.Token{Kind: token.Paren, Value: value.Text(sym), Group: token.GroupOf(sym[0])}
}

func ident(name string) token.Token { return tok(token.Identifier, value.Text(name)) }
func op(sym string) token.Token     { return tok(token.Operator, value.Text(sym)) }
func kw(name string) token.Token    { return tok(token.Keyword, value.Text(name)) }
func num(n int32) token.Token       { return tok(token.Integer, value.Int(n)) }
func flt(f float32) token.Token     { return tok(token.Float, value.Float(f)) }
func str(s string) token.Token      { return tok(token.String, value.Text(s)) }
func comment(s string) token.Token  { return tok(token.Comment, value.Text(s)) }

var (
	eof   = token.Token{Kind: token.EOF}
	comma = token.Token{Kind: token.Comma}
	semi  = token.Token{Kind: token.Semicolon}
)

func assertTokens(t *testing.T, input string, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) produced %d tokens %v, want %d %v", input, len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Tokenize(%q) token %d = %v, want %v", input, i, got[i], want[i])
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{
		{"empty", "", []token.Token{eof}},
		{"whitespace only", " \t\n ", []token.Token{eof}},
		{"assignment", "x = 5", []token.Token{ident("x"), op("="), num(5), eof}},
		{"precedence expr", "1+2*3", []token.Token{num(1), op("+"), num(2), op("*"), num(3), eof}},
		{"longest operator", "a >= b // c", []token.Token{ident("a"), op(">="), ident("b"), op("//"), ident("c"), eof}},
		{"compound assign", "s += 1", []token.Token{ident("s"), op("+="), num(1), eof}},
		{"float", "2.5", []token.Token{flt(2.5), eof}},
		{"float suffix", "1.5f 2f", []token.Token{flt(1.5), flt(2), eof}},
		{"suffix starting a word is not consumed", "2fx", []token.Token{num(2), ident("fx"), eof}},
		{"negative literal at start", "-1", []token.Token{num(-1), eof}},
		{"negative literal after operator", "x = -1", []token.Token{ident("x"), op("="), num(-1), eof}},
		{"negative literal after paren", "(-2)", []token.Token{paren("("), num(-2), paren(")"), eof}},
		{"binary minus after identifier", "a-1", []token.Token{ident("a"), op("-"), num(1), eof}},
		{"binary minus after literal", "5-3", []token.Token{num(5), op("-"), num(3), eof}},
		{"binary minus after close paren", "(a)-1", []token.Token{paren("("), ident("a"), paren(")"), op("-"), num(1), eof}},
		{"minus then negative literal", "2 - -1", []token.Token{num(2), op("-"), num(-1), eof}},
		{"unary minus on identifier", "-x", []token.Token{op("-"), ident("x"), eof}},
		{"string", `"hello, world"`, []token.Token{str("hello, world"), eof}},
		{"string keeps braces and tildes", `"{ ~ }"`, []token.Token{str("{ ~ }"), eof}},
		{"empty string", `""`, []token.Token{str(""), eof}},
		{"booleans", "true false", []token.Token{tok(token.Boolean, value.Bool(true)), tok(token.Boolean, value.Bool(false)), eof}},
		{"keywords", "if while for", []token.Token{kw("if"), kw("while"), kw("for"), eof}},
		{"keyword prefix is identifier", "iffy format", []token.Token{ident("iffy"), ident("format"), eof}},
		{"boolean prefix is identifier", "trueish", []token.Token{ident("trueish"), eof}},
		{"in is an identifier", "for (i in xs)", []token.Token{kw("for"), paren("("), ident("i"), ident("in"), ident("xs"), paren(")"), eof}},
		{"brackets", "[1, 2]", []token.Token{paren("["), num(1), comma, num(2), paren("]"), eof}},
		{"braces and semicolon", "{ x; }", []token.Token{paren("{"), ident("x"), semi, paren("}"), eof}},
		{"call", `println("{}", a)`, []token.Token{ident("println"), paren("("), str("{}"), comma, ident("a"), paren(")"), eof}},
		{"line comment", "x ~ note\ny", []token.Token{ident("x"), comment("note"), ident("y"), eof}},
		{"comment at end", "x ~", []token.Token{ident("x"), comment(""), eof}},
		{"block comment", "a ~* multi\nline *~ b", []token.Token{ident("a"), comment(" multi\nline "), ident("b"), eof}},
		{"tilde operator", "~5", []token.Token{op("~"), num(5), eof}},
		{"negative literal after comment line", "5 ~ c\n-1", []token.Token{num(5), comment("c"), num(-1), eof}},
		{"negative literal starts a new line", "x = 3\n-1", []token.Token{ident("x"), op("="), num(3), num(-1), eof}},
		{"spaced minus continues on next line", "x = 3\n- 1", []token.Token{ident("x"), op("="), num(3), op("-"), num(1), eof}},
		{"minus on same line after block comment", "5 ~* c *~-1", []token.Token{num(5), comment(" c "), op("-"), num(1), eof}},
		{"underscore identifier", "_tmp1", []token.Token{ident("_tmp1"), eof}},
		{"unicode identifier", "größe = 1", []token.Token{ident("größe"), op("="), num(1), eof}},
		{"shift and bitwise", "a << 2 | b & c >> 1", []token.Token{ident("a"), op("<<"), num(2), op("|"), ident("b"), op("&"), ident("c"), op(">>"), num(1), eof}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(DefaultOptions()).Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.input, err)
			}
			assertTokens(t, tt.input, got, tt.want)
		})
	}
}

func TestGreedyKeywords(t *testing.T) {
	opts := DefaultOptions()
	opts.WordBoundary = false
	got, err := New(opts).Tokenize("iffy truex")
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Token{kw("if"), ident("fy"), tok(token.Boolean, value.Bool(true)), ident("x"), eof}
	assertTokens(t, "iffy truex", got, want)
}

func TestPositions(t *testing.T) {
	input := "x = 1\n  while (x)"
	got, err := New(DefaultOptions()).Tokenize(input)
	if err != nil {
		t.Fatal(err)
	}
	want := []token.Position{
		{Offset: 0, Line: 1, Col: 1},
		{Offset: 2, Line: 1, Col: 3},
		{Offset: 4, Line: 1, Col: 5},
		{Offset: 8, Line: 2, Col: 3},
		{Offset: 14, Line: 2, Col: 9},
		{Offset: 15, Line: 2, Col: 10},
		{Offset: 16, Line: 2, Col: 11},
		{Offset: 17, Line: 2, Col: 12},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i, p := range want {
		if got[i].Pos != p {
			t.Errorf("token %d (%v) at %+v, want %+v", i, got[i], got[i].Pos, p)
		}
	}
	if got[3].Len != len("while") {
		t.Errorf("while token Len = %d", got[3].Len)
	}
}

func TestColumnsCountRunes(t *testing.T) {
	got, err := New(DefaultOptions()).Tokenize(`"äö" x`)
	if err != nil {
		t.Fatal(err)
	}
	if got[1].Pos.Col != 6 {
		t.Errorf("x at column %d, want 6", got[1].Pos.Col)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  rhlerr.Code
		line  int
		col   int
	}{
		{"unterminated string", `x = "abc`, rhlerr.CodeLex, 1, 5},
		{"unterminated block comment", "1 ~* open", rhlerr.CodeLex, 1, 3},
		{"invalid character", "x = 1 @ 2", rhlerr.CodeLex, 1, 7},
		{"integer overflow", "2147483648", rhlerr.CodeSyntax, 1, 1},
		{"negative integer overflow", "-2147483649", rhlerr.CodeSyntax, 1, 1},
		{"float overflow", "x = 99999999999999999999999999999999999999999.0", rhlerr.CodeSyntax, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultOptions()).Tokenize(tt.input)
			if !rhlerr.HasCode(err, tt.code) {
				t.Fatalf("Tokenize(%q) error = %v, want %s", tt.input, err, tt.code)
			}
			e, _ := rhlerr.As(err)
			if line, col, ok := e.Position(); !ok || line != tt.line || col != tt.col {
				t.Errorf("position = %d:%d (%v), want %d:%d", line, col, ok, tt.line, tt.col)
			}
		})
	}
}

func TestIntegerBounds(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Token
	}{
		{"x = -2147483648", []token.Token{ident("x"), op("="), num(-2147483648), eof}},
		{"2147483647 - 1", []token.Token{num(2147483647), op("-"), num(1), eof}},
		{"[2147483647, -2147483648]", []token.Token{paren("["), num(2147483647), comma, num(-2147483648), paren("]"), eof}},
		{"2147483647\n-2147483648", []token.Token{num(2147483647), num(-2147483648), eof}},
	}
	for _, tt := range tests {
		got, err := New(DefaultOptions()).Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.input, err)
		}
		assertTokens(t, tt.input, got, tt.want)
	}

	// after an operand on the same line the minus is binary, so the
	// unsigned magnitude must fit on its own
	_, err := New(DefaultOptions()).Tokenize("2147483647 -2147483648")
	if !rhlerr.HasCode(err, rhlerr.CodeSyntax) {
		t.Errorf("error = %v, want %s for an out-of-range subtrahend", err, rhlerr.CodeSyntax)
	}
}

func TestBareMinusIsLexError(t *testing.T) {
	s := newScanner("- 1", payloadCache{})
	_, err := numberHandler{}.Consume(s)
	if !rhlerr.HasCode(err, rhlerr.CodeLex) {
		t.Errorf("error = %v, want %s", err, rhlerr.CodeLex)
	}
}

type stuckHandler struct{}

func (stuckHandler) Name() string {
	return "stuck"
}

func (stuckHandler) CanStart(s *Scanner) bool {
	return s.Peek(0) == '@'
}

func (stuckHandler) Consume(*Scanner) (token.Token, error) {
	return token.Token{Kind: token.Operator}, nil
}

type runawayHandler struct{}

func (runawayHandler) Name() string {
	return "runaway"
}

func (runawayHandler) CanStart(s *Scanner) bool {
	return s.Peek(0) == '@'
}

func (runawayHandler) Consume(s *Scanner) (token.Token, error) {
	s.Advance(10)
	return token.Token{Kind: token.Operator}, nil
}

func TestProgressGuards(t *testing.T) {
	tests := []struct {
		name    string
		handler Handler
	}{
		{"no progress", stuckHandler{}},
		{"past end", runawayHandler{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(DefaultOptions())
			l.Registry().InsertBefore(CommentHandler, tt.handler)
			_, err := l.Tokenize("x @")
			if !rhlerr.HasCode(err, rhlerr.CodeInternal) {
				t.Errorf("error = %v, want %s", err, rhlerr.CodeInternal)
			}
		})
	}
}

func TestRegistryOrder(t *testing.T) {
	names := []string{}
	for _, h := range New(DefaultOptions()).Registry().Handlers() {
		names = append(names, h.Name())
	}
	want := []string{CommentHandler, NumberHandler, StringHandler, ParenHandler, OperatorHandler,
		CommaHandler, SemicolonHandler, BooleanHandler, KeywordHandler, IdentifierHandler}
	if len(names) != len(want) {
		t.Fatalf("handlers = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("handler %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestGrammarVocabulary(t *testing.T) {
	g := grammar.Default()
	g.Keywords.Register("unless", grammar.KeywordFunc(func(c grammar.Cursor) (value.Value, error) {
		return value.Null{}, nil
	}))
	g.Operators.Register(grammar.Operator{Symbol: "<>", Precedence: grammar.PrecEquality,
		Binary: func(l, r value.Value) (value.Value, error) { return value.Bool(!value.Equal(l, r)), nil }})

	opts := DefaultOptions()
	opts.Grammar = g
	got, err := New(opts).Tokenize("unless a <> b")
	if err != nil {
		t.Fatal(err)
	}
	assertTokens(t, "unless a <> b", got, []token.Token{kw("unless"), ident("a"), op("<>"), ident("b"), eof})

	// another lexer on the default grammar does not know the extension
	got, err = New(DefaultOptions()).Tokenize("unless")
	if err != nil {
		t.Fatal(err)
	}
	assertTokens(t, "unless", got, []token.Token{ident("unless"), eof})
}

func TestPayloadCache(t *testing.T) {
	l := New(DefaultOptions())
	if _, err := l.Tokenize("x = x + 1; x = x + 1"); err != nil {
		t.Fatal(err)
	}
	stats := l.CacheStats()
	if stats.Hits == 0 {
		t.Errorf("expected cache hits for repeated tokens, got %+v", stats)
	}
	if stats.Size > 100 {
		t.Errorf("cache exceeded its bound: %+v", stats)
	}

	opts := DefaultOptions()
	opts.CacheSize = 0
	uncached := New(opts)
	got, err := uncached.Tokenize("x = x + 1")
	if err != nil {
		t.Fatal(err)
	}
	assertTokens(t, "uncached", got, []token.Token{ident("x"), op("="), ident("x"), op("+"), num(1), eof})
	if s := uncached.CacheStats(); s.Size != 0 || s.Hits != 0 {
		t.Errorf("disabled cache stored entries: %+v", s)
	}
}

func TestTokenizeLogsCacheUsage(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = rhllog.NewWithConfig(rhllog.Config{
		Level:  rhllog.LevelDebug,
		Format: rhllog.FormatText,
		Output: &buf,
	})

	if _, err := New(opts).Tokenize("a = a"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"tokenized", "cache_hits=", "cache_hit_rate="} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log %q missing %q", out, want)
		}
	}
}
