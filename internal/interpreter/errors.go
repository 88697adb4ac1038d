package interpreter

import (
	"fmt"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/grammar"
	"github.com/msto63/rhl/internal/lexer"
	"github.com/msto63/rhl/internal/token"
)

// detailPartial marks an END_OF_INPUT error raised because the input
// stopped in the middle of a statement.
const detailPartial = "partial"

// at attaches t's position to err unless err already carries one
func at(t token.Token, err error) error {
	if err == nil {
		return nil
	}
	e, ok := rhlerr.As(err)
	if !ok {
		return rhlerr.Wrap(err, "output failed").WithCode(rhlerr.CodeIO).WithPosition(t.Pos.Line, t.Pos.Col)
	}
	if _, _, ok := e.Position(); ok {
		return e
	}
	return e.WithPosition(t.Pos.Line, t.Pos.Col)
}

func syntaxError(t token.Token, format string, args ...interface{}) *rhlerr.Error {
	return grammar.Errorf(rhlerr.CodeSyntax, format, args...).WithPosition(t.Pos.Line, t.Pos.Col)
}

func endOfInput(t token.Token, format string, args ...interface{}) *rhlerr.Error {
	return grammar.Errorf(rhlerr.CodeEndOfInput, format, args...).
		WithDetail(detailPartial, true).
		WithPosition(t.Pos.Line, t.Pos.Col)
}

func unknownOperator(t token.Token, sym string) *rhlerr.Error {
	return grammar.Errorf(rhlerr.CodeUnknownOperator, "unknown operator '%s'", sym).
		WithDetail("operator", sym).
		WithPosition(t.Pos.Line, t.Pos.Col)
}

// isPartial reports whether err signals input that ended mid-statement
func isPartial(err error) bool {
	e, ok := rhlerr.As(err)
	if !ok || e.Code() != rhlerr.CodeEndOfInput {
		return false
	}
	v, _ := e.Detail(detailPartial)
	partial, _ := v.(bool)
	return partial
}

func unterminated(err error) bool {
	e, ok := rhlerr.As(err)
	if !ok {
		return false
	}
	v, _ := e.Detail(lexer.DetailUnterminated)
	b, _ := v.(bool)
	return b
}

// describe renders a token for error messages
func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Paren, token.Operator, token.Comma, token.Semicolon:
		return fmt.Sprintf("'%s'", t.Text())
	case token.String:
		return fmt.Sprintf("string %q", t.Text())
	}
	return fmt.Sprintf("%s '%s'", kindName(t.Kind), t.Text())
}

func kindName(k token.Kind) string {
	switch k {
	case token.Integer:
		return "integer"
	case token.Float:
		return "float"
	case token.Boolean:
		return "boolean"
	case token.Identifier:
		return "identifier"
	case token.Keyword:
		return "keyword"
	}
	return k.String()
}
