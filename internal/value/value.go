// Package value defines the dynamically tagged runtime datum of RHL.
//
// A Value is one of Null, Bool, Int (32-bit), Float (32-bit), Text or
// List. The set is closed: the unexported marker method keeps other
// packages from adding variants, so a type switch over the six types is
// exhaustive.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Type tags a Value variant
type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	TextType
	ListType
)

// String returns the type name used in error messages and token dumps
func (t Type) String() string {
	switch t {
	case NullType:
		return "Null"
	case BoolType:
		return "Boolean"
	case IntType:
		return "Integer"
	case FloatType:
		return "Float"
	case TextType:
		return "String"
	case ListType:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is an immutable runtime datum
type Value interface {
	Type() Type
	String() string
	sealed()
}

// Null is the absent value
type Null struct{}

// Bool is a boolean
type Bool bool

// Int is a 32-bit signed integer; arithmetic wraps
type Int int32

// Float is a 32-bit IEEE float
type Float float32

// Text is a string of characters
type Text string

// List is an ordered sequence of values. Lists are never mutated after
// construction; operations that would change one build a new List.
type List []Value

func (Null) Type() Type  { return NullType }
func (Bool) Type() Type  { return BoolType }
func (Int) Type() Type   { return IntType }
func (Float) Type() Type { return FloatType }
func (Text) Type() Type  { return TextType }
func (List) Type() Type  { return ListType }

func (Null) sealed()  {}
func (Bool) sealed()  {}
func (Int) sealed()   {}
func (Float) sealed() {}
func (Text) sealed()  {}
func (List) sealed()  {}

func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// String prints at least one fractional digit so floats stay visually
// distinct from integers: 5.0, 2.5, 1.0E10. Magnitudes outside
// [1e-3, 1e7) use scientific notation.
func (f Float) String() string {
	x := float64(f)
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}

	if abs := math.Abs(x); abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(x, 'f', -1, 32)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	mant, exp, _ := strings.Cut(strconv.FormatFloat(x, 'e', -1, 32), "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}
	return mant + "E" + sign + strings.TrimLeft(exp[1:], "0")
}

func (t Text) String() string { return string(t) }

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			b.WriteString(", ")
		}
		if v == nil {
			b.WriteString("null")
			continue
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// TypeOf returns v's type, treating a nil interface as Null
func TypeOf(v Value) Type {
	if v == nil {
		return NullType
	}
	return v.Type()
}

// IsNumeric reports whether v is an Int or a Float
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

// ToFloat widens a numeric value to Float
func ToFloat(v Value) (Float, bool) {
	switch n := v.(type) {
	case Int:
		return Float(n), true
	case Float:
		return n, true
	}
	return 0, false
}

// Equal reports deep structural equality. Int and Float compare by
// numeric value; every other pair of different types is unequal.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}

	if IsNumeric(a) && IsNumeric(b) {
		if x, ok := a.(Int); ok {
			if y, ok := b.(Int); ok {
				return x == y
			}
		}
		x, _ := ToFloat(a)
		y, _ := ToFloat(b)
		return x == y
	}

	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Text:
		y, ok := b.(Text)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return false
}
