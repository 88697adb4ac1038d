package grammar

import (
	"io"
	"sort"

	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/value"
)

// CallContext is passed to every built-in invocation
type CallContext struct {
	// Name the function was called by
	Name string
	// Output is the program's output sink
	Output io.Writer
	Logger *rhllog.Logger
}

// Function is a callable built-in. Implementations validate argument
// count and types eagerly.
type Function interface {
	Call(ctx *CallContext, args []value.Value) (value.Value, error)
}

// FunctionFunc adapts a plain function to Function
type FunctionFunc func(ctx *CallContext, args []value.Value) (value.Value, error)

// Call calls f(ctx, args)
func (f FunctionFunc) Call(ctx *CallContext, args []value.Value) (value.Value, error) {
	return f(ctx, args)
}

// FunctionTable maps names to built-ins
type FunctionTable struct {
	entries map[string]Function
}

// NewFunctionTable returns an empty table
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{entries: make(map[string]Function)}
}

// Register adds or replaces a function
func (t *FunctionTable) Register(name string, fn Function) {
	t.entries[name] = fn
}

// Lookup returns the function registered under name
func (t *FunctionTable) Lookup(name string) (Function, bool) {
	fn, ok := t.entries[name]
	return fn, ok
}

// Names returns the registered names in lexical order
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
