package grammar

import (
	"math"
	"testing"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/value"
)

func binaryOp(t *testing.T, sym string) BinaryFunc {
	t.Helper()
	op, ok := Default().Operators.Lookup(sym)
	if !ok || op.Binary == nil {
		t.Fatalf("operator %q has no binary form", sym)
	}
	return op.Binary
}

func TestBinaryOperators(t *testing.T) {
	nan := value.Float(float32(math.NaN()))
	tests := []struct {
		name string
		op   string
		l, r value.Value
		want value.Value
	}{
		{"int add", "+", value.Int(2), value.Int(3), value.Int(5)},
		{"int add wraps", "+", value.Int(math.MaxInt32), value.Int(1), value.Int(math.MinInt32)},
		{"mixed add promotes", "+", value.Int(2), value.Float(0.5), value.Float(2.5)},
		{"text concat", "+", value.Text("n="), value.Int(4), value.Text("n=4")},
		{"concat float", "+", value.Float(1), value.Text("!"), value.Text("1.0!")},
		{"int sub", "-", value.Int(2), value.Int(5), value.Int(-3)},
		{"int mul", "*", value.Int(6), value.Int(7), value.Int(42)},
		{"int div truncates", "/", value.Int(7), value.Int(2), value.Int(3)},
		{"negative int div truncates toward zero", "/", value.Int(-7), value.Int(2), value.Int(-3)},
		{"float div", "/", value.Float(7), value.Int(2), value.Float(3.5)},
		{"float div by zero", "/", value.Float(5), value.Float(0), value.Float(float32(math.Inf(1)))},
		{"int floor div", "//", value.Int(7), value.Int(2), value.Int(3)},
		{"float floor div yields int", "//", value.Float(7.5), value.Int(2), value.Int(3)},
		{"int mod", "%", value.Int(7), value.Int(3), value.Int(1)},
		{"mod sign follows dividend", "%", value.Int(-7), value.Int(3), value.Int(-1)},
		{"float mod", "%", value.Float(7.5), value.Int(2), value.Float(1.5)},
		{"power is float", "^", value.Int(2), value.Int(3), value.Float(8)},
		{"equality numeric", "==", value.Int(1), value.Float(1), value.Bool(true)},
		{"equality lists", "==", value.List{value.Int(1)}, value.List{value.Int(1)}, value.Bool(true)},
		{"equality mixed types", "==", value.Text("1"), value.Int(1), value.Bool(false)},
		{"less", "<", value.Int(1), value.Float(1.5), value.Bool(true)},
		{"less equal", "<=", value.Int(2), value.Int(2), value.Bool(true)},
		{"greater", ">", value.Int(2), value.Int(3), value.Bool(false)},
		{"greater equal", ">=", value.Float(3), value.Int(3), value.Bool(true)},
		{"nan is unordered", "<", nan, value.Int(1), value.Bool(false)},
		{"and", "&&", value.Bool(true), value.Bool(false), value.Bool(false)},
		{"or", "||", value.Bool(true), value.Bool(false), value.Bool(true)},
		{"bit or", "|", value.Int(5), value.Int(2), value.Int(7)},
		{"bit and", "&", value.Int(6), value.Int(3), value.Int(2)},
		{"shift left", "<<", value.Int(1), value.Int(4), value.Int(16)},
		{"shift count masked", "<<", value.Int(1), value.Int(33), value.Int(2)},
		{"arithmetic shift right", ">>", value.Int(-16), value.Int(2), value.Int(-4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := binaryOp(t, tt.op)(tt.l, tt.r)
			if err != nil {
				t.Fatalf("%v %s %v: unexpected error %v", tt.l, tt.op, tt.r, err)
			}
			if got.Type() != tt.want.Type() || !value.Equal(got, tt.want) {
				t.Errorf("%v %s %v = %#v, want %#v", tt.l, tt.op, tt.r, got, tt.want)
			}
		})
	}
}

func TestBinaryOperatorErrors(t *testing.T) {
	tests := []struct {
		name string
		op   string
		l, r value.Value
		code rhlerr.Code
	}{
		{"int div by zero", "/", value.Int(5), value.Int(0), rhlerr.CodeArithmetic},
		{"int mod by zero", "%", value.Int(5), value.Int(0), rhlerr.CodeArithmetic},
		{"floor div by zero", "//", value.Int(5), value.Int(0), rhlerr.CodeArithmetic},
		{"float floor div by zero", "//", value.Float(5), value.Float(0), rhlerr.CodeArithmetic},
		{"floor div overflow", "//", value.Float(1e30), value.Float(1), rhlerr.CodeArithmetic},
		{"sub text", "-", value.Text("a"), value.Int(1), rhlerr.CodeType},
		{"add bool", "+", value.Bool(true), value.Int(1), rhlerr.CodeType},
		{"and non-bool", "&&", value.Int(1), value.Bool(true), rhlerr.CodeType},
		{"or non-bool", "||", value.Bool(false), value.Null{}, rhlerr.CodeType},
		{"compare text", "<", value.Text("a"), value.Text("b"), rhlerr.CodeType},
		{"bitwise float", "|", value.Float(1), value.Int(1), rhlerr.CodeType},
		{"power list", "^", value.List{}, value.Int(2), rhlerr.CodeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := binaryOp(t, tt.op)(tt.l, tt.r)
			if !rhlerr.HasCode(err, tt.code) {
				t.Errorf("%v %s %v error = %v, want %s", tt.l, tt.op, tt.r, err, tt.code)
			}
		})
	}
}

func TestUnaryOperators(t *testing.T) {
	ops := Default().Operators
	minus, _ := ops.Lookup("-")
	tilde, _ := ops.Lookup("~")

	if got, _ := minus.Unary(value.Int(4)); got != value.Int(-4) {
		t.Errorf("-4 = %v", got)
	}
	if got, _ := minus.Unary(value.Float(1.5)); got != value.Float(-1.5) {
		t.Errorf("-1.5 = %v", got)
	}
	if got, _ := tilde.Unary(value.Int(0)); got != value.Int(-1) {
		t.Errorf("~0 = %v", got)
	}
	if _, err := minus.Unary(value.Text("x")); !rhlerr.HasCode(err, rhlerr.CodeType) {
		t.Errorf("-\"x\" error = %v", err)
	}
	if _, err := tilde.Unary(value.Float(1)); !rhlerr.HasCode(err, rhlerr.CodeType) {
		t.Errorf("~1.0 error = %v", err)
	}
	if tilde.IsBinary() {
		t.Error("'~' must not have an infix form")
	}
}

func TestPrecedenceTable(t *testing.T) {
	ops := Default().Operators
	tests := []struct {
		sym   string
		prec  int
		assoc Assoc
	}{
		{"=", PrecAssign, RightAssoc},
		{"%=", PrecAssign, RightAssoc},
		{"||", PrecOr, LeftAssoc},
		{"&&", PrecAnd, LeftAssoc},
		{"==", PrecEquality, LeftAssoc},
		{"<=", PrecRelational, LeftAssoc},
		{"<<", PrecBitwise, LeftAssoc},
		{"&", PrecBitwise, LeftAssoc},
		{"+", PrecAdditive, LeftAssoc},
		{"-", PrecAdditive, LeftAssoc},
		{"//", PrecMultiplicative, LeftAssoc},
		{"^", PrecPower, RightAssoc},
	}
	for _, tt := range tests {
		op, ok := ops.Lookup(tt.sym)
		if !ok {
			t.Errorf("operator %q missing", tt.sym)
			continue
		}
		if op.Precedence != tt.prec || op.Assoc != tt.assoc {
			t.Errorf("%q: precedence %d assoc %d, want %d %d", tt.sym, op.Precedence, op.Assoc, tt.prec, tt.assoc)
		}
	}

	compound, _ := ops.Lookup("^=")
	if !compound.Assign || compound.Compound != "^" || compound.IsBinary() {
		t.Errorf("^= = %+v", compound)
	}
}

func TestSymbolsLongestFirst(t *testing.T) {
	syms := Default().OperatorSymbols()
	if len(syms) != 24 {
		t.Errorf("got %d symbols, want 24: %v", len(syms), syms)
	}
	for i := 1; i < len(syms); i++ {
		if len(syms[i]) > len(syms[i-1]) {
			t.Fatalf("symbols not sorted longest first: %v", syms)
		}
	}
}

func TestRegisterOperatorIsPerInstance(t *testing.T) {
	a, b := Default(), Default()
	a.Operators.Register(Operator{Symbol: "<>", Precedence: PrecEquality, Binary: func(l, r value.Value) (value.Value, error) {
		return value.Bool(!value.Equal(l, r)), nil
	}})

	if _, ok := a.Operators.Lookup("<>"); !ok {
		t.Error("registered operator missing")
	}
	if _, ok := b.Operators.Lookup("<>"); ok {
		t.Error("registration leaked into another grammar instance")
	}
	if a.Operators.Len() != b.Operators.Len()+1 {
		t.Errorf("Len = %d, want %d", a.Operators.Len(), b.Operators.Len()+1)
	}
}

func TestOperatorMatch(t *testing.T) {
	ops := Default().Operators
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{">= 3", ">=", true},
		{"> 3", ">", true},
		{"//2", "//", true},
		{"<<=", "<<", true},
		{"^=1", "^=", true},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ops.Match(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
