package lexer

import (
	"strconv"
	"strings"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/grammar"
	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
)

// Handler names, usable with Registry.InsertBefore
const (
	CommentHandler    = "comment"
	NumberHandler     = "number"
	StringHandler     = "string"
	ParenHandler      = "paren"
	OperatorHandler   = "operator"
	CommaHandler      = "comma"
	SemicolonHandler  = "semicolon"
	BooleanHandler    = "boolean"
	KeywordHandler    = "keyword"
	IdentifierHandler = "identifier"
)

// DetailUnterminated is set on errors for input that ends inside a string
// or block comment. More input could complete it.
const DetailUnterminated = "unterminated"

func lexError(s *Scanner, format string, args ...interface{}) *rhlerr.Error {
	p := s.Position()
	return grammar.Errorf(rhlerr.CodeLex, format, args...).WithPosition(p.Line, p.Col)
}

func syntaxError(p token.Position, format string, args ...interface{}) *rhlerr.Error {
	return grammar.Errorf(rhlerr.CodeSyntax, format, args...).WithPosition(p.Line, p.Col)
}

// ~ line comment, ~* block comment *~
type commentHandler struct{}

func (commentHandler) Name() string { return CommentHandler }

// A '~' only starts a comment when followed by '*', whitespace or the end
// of input; otherwise it is the bitwise-not operator.
func (commentHandler) CanStart(s *Scanner) bool {
	if s.Peek(0) != '~' {
		return false
	}
	switch s.Peek(1) {
	case '*', ' ', '\t', '\n', '\r', 0:
		return true
	}
	return false
}

func (commentHandler) Consume(s *Scanner) (token.Token, error) {
	if s.Peek(1) == '*' {
		end := strings.Index(s.Rest()[2:], "*~")
		if end < 0 {
			err := lexError(s, "unterminated block comment").WithDetail(DetailUnterminated, true)
			s.Advance(len(s.Rest()))
			return token.Token{}, err
		}
		text := s.Advance(end + 4)
		return token.Token{Kind: token.Comment, Value: value.Text(text[2 : len(text)-2])}, nil
	}
	s.Advance(1)
	end := strings.IndexByte(s.Rest(), '\n')
	if end < 0 {
		end = len(s.Rest())
	}
	text := strings.TrimRight(s.Advance(end), "\r")
	return token.Token{Kind: token.Comment, Value: value.Text(strings.TrimSpace(text))}, nil
}

// Integer and float literals: -?digits(.digits)?f?
type numberHandler struct{}

func (numberHandler) Name() string { return NumberHandler }

func (numberHandler) CanStart(s *Scanner) bool {
	if isDigit(s.Peek(0)) {
		return true
	}
	if s.Peek(0) != '-' || !isDigit(s.Peek(1)) {
		return false
	}
	prev, ok := s.Previous()
	return !ok || !prev.IsOperand() || s.LineBreakSincePrevious()
}

func (numberHandler) Consume(s *Scanner) (token.Token, error) {
	start := s.Position()
	n := 0
	if s.Peek(0) == '-' {
		n++
		if !isDigit(s.Peek(1)) {
			return token.Token{}, lexError(s, "'-' is not followed by a digit")
		}
	}
	for isDigit(s.Peek(n)) {
		n++
	}
	float := false
	if s.Peek(n) == '.' && isDigit(s.Peek(n+1)) {
		float = true
		n++
		for isDigit(s.Peek(n)) {
			n++
		}
	}
	text := s.Advance(n)

	// the f marker is consumed only when it does not begin a word
	if s.Peek(0) == 'f' {
		if r, _ := s.PeekRune(1); !isIdentPart(r) {
			float = true
			s.Advance(1)
		}
	}

	if float {
		v, err := s.Payload(token.Float, text, decodeFloat)
		if err != nil {
			return token.Token{}, syntaxError(start, "%v", err)
		}
		return token.Token{Kind: token.Float, Value: v}, nil
	}
	v, err := s.Payload(token.Integer, text, decodeInt)
	if err != nil {
		return token.Token{}, syntaxError(start, "%v", err)
	}
	return token.Token{Kind: token.Integer, Value: v}, nil
}

func decodeInt(text string) (value.Value, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, rhlerr.Newf("integer literal %s is out of range", text)
	}
	return value.Int(n), nil
}

func decodeFloat(text string) (value.Value, error) {
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return nil, rhlerr.Newf("float literal %s is out of range", text)
	}
	return value.Float(f), nil
}

// "..." without escapes
type stringHandler struct{}

func (stringHandler) Name() string { return StringHandler }

func (stringHandler) CanStart(s *Scanner) bool { return s.Peek(0) == '"' }

func (stringHandler) Consume(s *Scanner) (token.Token, error) {
	end := strings.IndexByte(s.Rest()[1:], '"')
	if end < 0 {
		err := lexError(s, "unterminated string").WithDetail(DetailUnterminated, true)
		s.Advance(len(s.Rest()))
		return token.Token{}, err
	}
	text := s.Advance(end + 2)
	v, _ := s.Payload(token.String, text, func(raw string) (value.Value, error) {
		return value.Text(raw[1 : len(raw)-1]), nil
	})
	return token.Token{Kind: token.String, Value: v}, nil
}

type parenHandler struct{}

func (parenHandler) Name() string { return ParenHandler }

func (parenHandler) CanStart(s *Scanner) bool { return token.GroupOf(s.Peek(0)) != token.NoGroup }

func (parenHandler) Consume(s *Scanner) (token.Token, error) {
	g := token.GroupOf(s.Peek(0))
	s.Advance(1)
	return token.Token{Kind: token.Paren, Value: value.Text(g.Symbol()), Group: g}, nil
}

// Longest registered operator symbol at the cursor
type operatorHandler struct {
	ops *grammar.OperatorTable
}

func (operatorHandler) Name() string { return OperatorHandler }

func (h operatorHandler) CanStart(s *Scanner) bool {
	_, ok := h.ops.Match(s.Rest())
	return ok
}

func (h operatorHandler) Consume(s *Scanner) (token.Token, error) {
	sym, ok := h.ops.Match(s.Rest())
	if !ok {
		return token.Token{}, lexError(s, "no operator at cursor")
	}
	s.Advance(len(sym))
	v, _ := s.Payload(token.Operator, sym, textPayload)
	return token.Token{Kind: token.Operator, Value: v}, nil
}

// Single-character punctuation
type punctHandler struct {
	name string
	char byte
	kind token.Kind
}

func (h punctHandler) Name() string { return h.name }

func (h punctHandler) CanStart(s *Scanner) bool { return s.Peek(0) == h.char }

func (h punctHandler) Consume(s *Scanner) (token.Token, error) {
	s.Advance(1)
	return token.Token{Kind: h.kind}, nil
}

// wordHandler matches a fixed vocabulary: the boolean literals or the
// registered keywords. With boundary set, the whole identifier-shaped
// word at the cursor must be in the vocabulary. Without it, the longest
// vocabulary entry that prefixes the input wins, even inside a longer
// word.
type wordHandler struct {
	name     string
	kind     token.Kind
	boundary bool
	words    func() []string
	decode   func(string) (value.Value, error)
}

func (h wordHandler) Name() string { return h.name }

func (h wordHandler) match(s *Scanner) string {
	if h.boundary {
		word := s.wordAt()
		if word == "" {
			return ""
		}
		for _, w := range h.words() {
			if w == word {
				return w
			}
		}
		return ""
	}
	best := ""
	for _, w := range h.words() {
		if len(w) > len(best) && s.HasPrefix(w) {
			best = w
		}
	}
	return best
}

func (h wordHandler) CanStart(s *Scanner) bool { return h.match(s) != "" }

func (h wordHandler) Consume(s *Scanner) (token.Token, error) {
	w := h.match(s)
	if w == "" {
		return token.Token{}, lexError(s, "no %s at cursor", h.name)
	}
	s.Advance(len(w))
	v, err := s.Payload(h.kind, w, h.decode)
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: h.kind, Value: v}, nil
}

var booleanWords = []string{"true", "false"}

func decodeBool(text string) (value.Value, error) {
	return value.Bool(text == "true"), nil
}

func textPayload(text string) (value.Value, error) {
	return value.Text(text), nil
}

type identifierHandler struct{}

func (identifierHandler) Name() string { return IdentifierHandler }

func (identifierHandler) CanStart(s *Scanner) bool {
	r, _ := s.PeekRune(0)
	return isIdentStart(r)
}

func (identifierHandler) Consume(s *Scanner) (token.Token, error) {
	word := s.wordAt()
	s.Advance(len(word))
	v, _ := s.Payload(token.Identifier, word, textPayload)
	return token.Token{Kind: token.Identifier, Value: v}, nil
}
