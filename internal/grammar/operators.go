package grammar

import (
	"sort"
	"strings"

	"github.com/msto63/rhl/internal/value"
)

// Precedence levels, lowest to highest. Zero means "not a binary operator".
const (
	PrecNone = iota
	PrecAssign
	PrecOr
	PrecAnd
	PrecEquality
	PrecRelational
	PrecBitwise
	PrecAdditive
	PrecMultiplicative
	PrecPower
	PrecUnary
)

// Assoc is the associativity of a binary operator
type Assoc int

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// BinaryFunc combines two operands
type BinaryFunc func(l, r value.Value) (value.Value, error)

// UnaryFunc transforms a single prefix operand
type UnaryFunc func(v value.Value) (value.Value, error)

// Operator describes one operator symbol. A symbol may have a binary form,
// a prefix form or both ('-'). Assignment operators have Assign set;
// Compound names the binary operator applied before storing, empty for
// plain '='.
type Operator struct {
	Symbol     string
	Precedence int
	Assoc      Assoc
	Binary     BinaryFunc
	Unary      UnaryFunc
	Assign     bool
	Compound   string
}

// IsBinary reports whether the operator has an infix form
func (o *Operator) IsBinary() bool {
	return o.Binary != nil && !o.Assign && o.Precedence > PrecNone
}

// OperatorTable maps symbols to operators
type OperatorTable struct {
	entries map[string]*Operator
	// symbols sorted longest first for maximal-munch lexing
	symbols []string
}

// NewOperatorTable returns an empty table
func NewOperatorTable() *OperatorTable {
	return &OperatorTable{entries: make(map[string]*Operator)}
}

// Register adds or replaces an operator
func (t *OperatorTable) Register(op Operator) {
	if _, exists := t.entries[op.Symbol]; !exists {
		t.symbols = append(t.symbols, op.Symbol)
		sort.SliceStable(t.symbols, func(i, j int) bool {
			if len(t.symbols[i]) != len(t.symbols[j]) {
				return len(t.symbols[i]) > len(t.symbols[j])
			}
			return t.symbols[i] < t.symbols[j]
		})
	}
	entry := op
	t.entries[op.Symbol] = &entry
}

// Lookup returns the operator for symbol
func (t *OperatorTable) Lookup(symbol string) (*Operator, bool) {
	op, ok := t.entries[symbol]
	return op, ok
}

// Symbols returns all symbols, longest first
func (t *OperatorTable) Symbols() []string {
	out := make([]string, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Match returns the longest registered symbol that prefixes s
func (t *OperatorTable) Match(s string) (string, bool) {
	for _, sym := range t.symbols {
		if strings.HasPrefix(s, sym) {
			return sym, true
		}
	}
	return "", false
}

// Len returns the number of registered operators
func (t *OperatorTable) Len() int {
	return len(t.entries)
}

func defaultOperators() *OperatorTable {
	t := NewOperatorTable()

	binary := func(sym string, prec int, assoc Assoc, fn BinaryFunc) {
		t.Register(Operator{Symbol: sym, Precedence: prec, Assoc: assoc, Binary: fn})
	}

	binary("||", PrecOr, LeftAssoc, logical("||", func(a, b bool) bool { return a || b }))
	binary("&&", PrecAnd, LeftAssoc, logical("&&", func(a, b bool) bool { return a && b }))
	binary("==", PrecEquality, LeftAssoc, equal)
	binary("<", PrecRelational, LeftAssoc, relational("<", func(c int) bool { return c < 0 }))
	binary("<=", PrecRelational, LeftAssoc, relational("<=", func(c int) bool { return c <= 0 }))
	binary(">", PrecRelational, LeftAssoc, relational(">", func(c int) bool { return c > 0 }))
	binary(">=", PrecRelational, LeftAssoc, relational(">=", func(c int) bool { return c >= 0 }))
	binary("|", PrecBitwise, LeftAssoc, bitwise("|", func(a, b value.Int) value.Int { return a | b }))
	binary("&", PrecBitwise, LeftAssoc, bitwise("&", func(a, b value.Int) value.Int { return a & b }))
	binary("<<", PrecBitwise, LeftAssoc, bitwise("<<", func(a, b value.Int) value.Int { return a << (uint32(b) & 31) }))
	binary(">>", PrecBitwise, LeftAssoc, bitwise(">>", func(a, b value.Int) value.Int { return a >> (uint32(b) & 31) }))
	binary("+", PrecAdditive, LeftAssoc, add)
	binary("*", PrecMultiplicative, LeftAssoc, mul)
	binary("/", PrecMultiplicative, LeftAssoc, div)
	binary("//", PrecMultiplicative, LeftAssoc, intDiv)
	binary("%", PrecMultiplicative, LeftAssoc, mod)
	binary("^", PrecPower, RightAssoc, pow)

	t.Register(Operator{Symbol: "-", Precedence: PrecAdditive, Binary: sub, Unary: negate})
	t.Register(Operator{Symbol: "~", Unary: complement})

	assign := func(sym, compound string) {
		t.Register(Operator{Symbol: sym, Precedence: PrecAssign, Assoc: RightAssoc, Assign: true, Compound: compound})
	}
	assign("=", "")
	assign("+=", "+")
	assign("-=", "-")
	assign("^=", "^")
	assign("%=", "%")

	return t
}
