package grammar

import (
	"fmt"
	"math"
	"strings"

	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/value"
)

const placeholder = "{}"

func defaultFunctions() *FunctionTable {
	t := NewFunctionTable()
	t.Register("println", FunctionFunc(printLine))
	t.Register("sqrt", FunctionFunc(sqrt))
	t.Register("abs", FunctionFunc(abs))
	t.Register("max", FunctionFunc(extremum(math.Max)))
	t.Register("min", FunctionFunc(extremum(math.Min)))
	return t
}

func arity(ctx *CallContext, args []value.Value, want int) error {
	if len(args) != want {
		return argumentError(ctx.Name, "expected %d argument(s), got %d", want, len(args))
	}
	return nil
}

func number(ctx *CallContext, args []value.Value, i int) (value.Float, error) {
	f, ok := value.ToFloat(args[i])
	if !ok {
		return 0, argumentError(ctx.Name, "argument %d must be Integer or Float, got %s", i+1, value.TypeOf(args[i]))
	}
	return f, nil
}

func trace(ctx *CallContext, args []value.Value, result value.Value) {
	if ctx.Logger != nil && ctx.Logger.IsLevelEnabled(rhllog.LevelDebug) {
		ctx.Logger.Debug("builtin called", rhllog.Fields{
			"function": ctx.Name,
			"args":     value.List(args).String(),
			"result":   value.TypeOf(result).String(),
		})
	}
}

// printLine implements println(fmt, args...). It fills each {} in fmt with the next argument and
// writes one line.
func printLine(ctx *CallContext, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return nil, argumentError(ctx.Name, "expected at least 1 argument, got 0")
	}
	format, ok := args[0].(value.Text)
	if !ok {
		return nil, argumentError(ctx.Name, "argument 1 must be String, got %s", value.TypeOf(args[0]))
	}

	rest := args[1:]
	if n := strings.Count(string(format), placeholder); n != len(rest) {
		return nil, argumentError(ctx.Name, "format has %d placeholder(s) but %d argument(s) were given", n, len(rest))
	}

	var b strings.Builder
	s := string(format)
	for _, arg := range rest {
		i := strings.Index(s, placeholder)
		b.WriteString(s[:i])
		b.WriteString(arg.String())
		s = s[i+len(placeholder):]
	}
	b.WriteString(s)

	if _, err := fmt.Fprintln(ctx.Output, b.String()); err != nil {
		return nil, err
	}
	trace(ctx, args, value.Null{})
	return value.Null{}, nil
}

func sqrt(ctx *CallContext, args []value.Value) (value.Value, error) {
	if err := arity(ctx, args, 1); err != nil {
		return nil, err
	}
	x, err := number(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	result := value.Float(math.Sqrt(float64(x)))
	trace(ctx, args, result)
	return result, nil
}

// abs keeps the argument's numeric type
func abs(ctx *CallContext, args []value.Value) (value.Value, error) {
	if err := arity(ctx, args, 1); err != nil {
		return nil, err
	}
	var result value.Value
	switch n := args[0].(type) {
	case value.Int:
		if n < 0 {
			n = -n
		}
		result = n
	case value.Float:
		result = value.Float(math.Abs(float64(n)))
	default:
		return nil, argumentError(ctx.Name, "argument 1 must be Integer or Float, got %s", value.TypeOf(args[0]))
	}
	trace(ctx, args, result)
	return result, nil
}

// extremum builds max/min; both operands are promoted to Float
func extremum(pick func(a, b float64) float64) FunctionFunc {
	return func(ctx *CallContext, args []value.Value) (value.Value, error) {
		if err := arity(ctx, args, 2); err != nil {
			return nil, err
		}
		a, err := number(ctx, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := number(ctx, args, 1)
		if err != nil {
			return nil, err
		}
		result := value.Float(pick(float64(a), float64(b)))
		trace(ctx, args, result)
		return result, nil
	}
}
