// Package token defines the lexical units produced by the lexer and
// consumed by the interpreter.
package token

import (
	"fmt"

	"github.com/msto63/rhl/internal/value"
)

// Kind classifies a token
type Kind int

const (
	EOF Kind = iota
	Integer
	Float
	String
	Boolean
	Identifier
	Keyword
	Operator
	Paren
	Comma
	Semicolon
	Comment
)

// String returns the kind name as shown in token dumps
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case String:
		return "STRING"
	case Boolean:
		return "BOOLEAN"
	case Identifier:
		return "IDENTIFIER"
	case Keyword:
		return "KEYWORD"
	case Operator:
		return "OPERATOR"
	case Paren:
		return "PARENTHESIS"
	case Comma:
		return "COMMA"
	case Semicolon:
		return "SEMICOLON"
	case Comment:
		return "COMMENT"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Group is one of the six bracket variants
type Group int

const (
	NoGroup Group = iota
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var groupSymbols = [...]string{
	NoGroup:  "",
	LParen:   "(",
	RParen:   ")",
	LBrace:   "{",
	RBrace:   "}",
	LBracket: "[",
	RBracket: "]",
}

// Symbol returns the bracket character
func (g Group) Symbol() string {
	if g < 0 || int(g) >= len(groupSymbols) {
		return ""
	}
	return groupSymbols[g]
}

func (g Group) String() string { return g.Symbol() }

// GroupOf maps a bracket character to its Group
func GroupOf(c byte) Group {
	switch c {
	case '(':
		return LParen
	case ')':
		return RParen
	case '{':
		return LBrace
	case '}':
		return RBrace
	case '[':
		return LBracket
	case ']':
		return RBracket
	}
	return NoGroup
}

// Position locates a token in the source. Line and Col are 1-based;
// Offset is a byte offset.
type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a classified lexical unit. Value carries the payload:
//
//	Integer     value.Int
//	Float       value.Float
//	String      value.Text (without quotes)
//	Boolean     value.Bool
//	Identifier, Keyword, Operator, Comment  value.Text
//	Paren       value.Text of the bracket, Group set
//	Comma, Semicolon, EOF                   nil
//
// Tokens are compared by value, never by identity.
type Token struct {
	Kind  Kind
	Value value.Value
	Group Group
	Pos   Position

	// Len is the number of source bytes the token spans
	Len int
}

// Text returns the textual payload of identifier-like tokens, or the
// printed payload for others.
func (t Token) Text() string {
	if t.Value == nil {
		switch t.Kind {
		case Comma:
			return ","
		case Semicolon:
			return ";"
		}
		return ""
	}
	return t.Value.String()
}

// IsGroup reports whether t is the given bracket
func (t Token) IsGroup(g Group) bool {
	return t.Kind == Paren && t.Group == g
}

// Equal compares kind, group and payload, ignoring position
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind || t.Group != o.Group {
		return false
	}
	if t.Value == nil || o.Value == nil {
		return t.Value == nil && o.Value == nil
	}
	return t.Value.Type() == o.Value.Type() && value.Equal(t.Value, o.Value)
}

func (t Token) String() string {
	if t.Value == nil {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}

// IsOperand reports whether t can end an operand. The lexer uses it to
// decide whether a following '-' is binary minus or a sign.
func (t Token) IsOperand() bool {
	switch t.Kind {
	case Integer, Float, String, Boolean, Identifier:
		return true
	case Paren:
		return t.Group == RParen || t.Group == RBracket
	}
	return false
}
