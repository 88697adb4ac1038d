package grammar

import (
	"math"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/value"
)

// numericPair classifies a pair of operands: both Int, numeric with at
// least one Float, or not numeric.
func numericPair(l, r value.Value) (li, ri value.Int, lf, rf value.Float, ints, ok bool) {
	li, lInt := l.(value.Int)
	ri, rInt := r.(value.Int)
	if lInt && rInt {
		return li, ri, 0, 0, true, true
	}
	lf, lok := value.ToFloat(l)
	rf, rok := value.ToFloat(r)
	return 0, 0, lf, rf, false, lok && rok
}

func operandError(op string, l, r value.Value) *rhlerr.Error {
	return typeError("operator '%s' cannot be applied to %s and %s",
		op, value.TypeOf(l), value.TypeOf(r)).
		WithOperation("binary " + op)
}

func add(l, r value.Value) (value.Value, error) {
	_, lText := l.(value.Text)
	_, rText := r.(value.Text)
	if lText || rText {
		return value.Text(l.String() + r.String()), nil
	}
	li, ri, lf, rf, ints, ok := numericPair(l, r)
	switch {
	case ints:
		return li + ri, nil
	case ok:
		return lf + rf, nil
	}
	return nil, operandError("+", l, r)
}

func sub(l, r value.Value) (value.Value, error) {
	li, ri, lf, rf, ints, ok := numericPair(l, r)
	switch {
	case ints:
		return li - ri, nil
	case ok:
		return lf - rf, nil
	}
	return nil, operandError("-", l, r)
}

func mul(l, r value.Value) (value.Value, error) {
	li, ri, lf, rf, ints, ok := numericPair(l, r)
	switch {
	case ints:
		return li * ri, nil
	case ok:
		return lf * rf, nil
	}
	return nil, operandError("*", l, r)
}

func divisionByZero(op string) *rhlerr.Error {
	return Errorf(rhlerr.CodeArithmetic, "division by zero").WithOperation("binary " + op)
}

// div truncates toward zero for two integers; floats follow IEEE rules,
// so 5.0 / 0.0 is Infinity rather than an error.
func div(l, r value.Value) (value.Value, error) {
	li, ri, lf, rf, ints, ok := numericPair(l, r)
	switch {
	case ints:
		if ri == 0 {
			return nil, divisionByZero("/")
		}
		return li / ri, nil
	case ok:
		return lf / rf, nil
	}
	return nil, operandError("/", l, r)
}

// intDiv always yields an Int. A zero divisor is an error for floats too.
func intDiv(l, r value.Value) (value.Value, error) {
	li, ri, lf, rf, ints, ok := numericPair(l, r)
	switch {
	case ints:
		if ri == 0 {
			return nil, divisionByZero("//")
		}
		return li / ri, nil
	case ok:
		if rf == 0 {
			return nil, divisionByZero("//")
		}
		q := math.Trunc(float64(lf) / float64(rf))
		if math.IsNaN(q) || q > math.MaxInt32 || q < math.MinInt32 {
			return nil, Errorf(rhlerr.CodeArithmetic, "integer division result %v out of range", q).
				WithOperation("binary //")
		}
		return value.Int(q), nil
	}
	return nil, operandError("//", l, r)
}

// mod follows the sign of the dividend. Float modulus by zero is NaN.
func mod(l, r value.Value) (value.Value, error) {
	li, ri, lf, rf, ints, ok := numericPair(l, r)
	switch {
	case ints:
		if ri == 0 {
			return nil, Errorf(rhlerr.CodeArithmetic, "modulus by zero").WithOperation("binary %")
		}
		return li % ri, nil
	case ok:
		return value.Float(math.Mod(float64(lf), float64(rf))), nil
	}
	return nil, operandError("%", l, r)
}

func pow(l, r value.Value) (value.Value, error) {
	lf, lok := value.ToFloat(l)
	rf, rok := value.ToFloat(r)
	if !lok || !rok {
		return nil, operandError("^", l, r)
	}
	return value.Float(math.Pow(float64(lf), float64(rf))), nil
}

func equal(l, r value.Value) (value.Value, error) {
	return value.Bool(value.Equal(l, r)), nil
}

// compare orders two numbers: Int pairs exactly, so values above 2^24
// stay distinct, everything else after promotion to Float.
func compare(op string, l, r value.Value) (int, error) {
	if li, ok := l.(value.Int); ok {
		if ri, ok := r.(value.Int); ok {
			switch {
			case li < ri:
				return -1, nil
			case li > ri:
				return 1, nil
			}
			return 0, nil
		}
	}
	lf, lok := value.ToFloat(l)
	rf, rok := value.ToFloat(r)
	if !lok || !rok {
		return 0, operandError(op, l, r)
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	case lf == rf:
		return 0, nil
	}
	// NaN is unordered; report it as neither less, greater nor equal.
	return 2, nil
}

func relational(op string, test func(c int) bool) BinaryFunc {
	return func(l, r value.Value) (value.Value, error) {
		c, err := compare(op, l, r)
		if err != nil {
			return nil, err
		}
		if c == 2 {
			return value.Bool(false), nil
		}
		return value.Bool(test(c)), nil
	}
}

func logical(op string, fn func(a, b bool) bool) BinaryFunc {
	return func(l, r value.Value) (value.Value, error) {
		lb, lok := l.(value.Bool)
		rb, rok := r.(value.Bool)
		if !lok || !rok {
			return nil, typeError("operator '%s' requires Boolean operands, got %s and %s",
				op, value.TypeOf(l), value.TypeOf(r)).WithOperation("binary " + op)
		}
		return value.Bool(fn(bool(lb), bool(rb))), nil
	}
}

func bitwise(op string, fn func(a, b value.Int) value.Int) BinaryFunc {
	return func(l, r value.Value) (value.Value, error) {
		li, lok := l.(value.Int)
		ri, rok := r.(value.Int)
		if !lok || !rok {
			return nil, typeError("operator '%s' requires Integer operands, got %s and %s",
				op, value.TypeOf(l), value.TypeOf(r)).WithOperation("binary " + op)
		}
		return fn(li, ri), nil
	}
}

func negate(v value.Value) (value.Value, error) {
	switch n := v.(type) {
	case value.Int:
		return -n, nil
	case value.Float:
		return -n, nil
	}
	return nil, typeError("unary '-' cannot be applied to %s", value.TypeOf(v)).WithOperation("unary -")
}

func complement(v value.Value) (value.Value, error) {
	if n, ok := v.(value.Int); ok {
		return ^n, nil
	}
	return nil, typeError("unary '~' cannot be applied to %s", value.TypeOf(v)).WithOperation("unary ~")
}
