// Package env holds the variable bindings of one interpreter instance.
package env

import (
	"sort"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/value"
)

// Environment is a single flat, global scope mapping names to values.
// It is owned by one interpreter and is not safe for concurrent use.
type Environment struct {
	vars map[string]value.Value
}

// New returns an empty environment
func New() *Environment {
	return &Environment{vars: make(map[string]value.Value)}
}

// Get returns the value bound to name or an UNDEFINED_VARIABLE error
func (e *Environment) Get(name string) (value.Value, error) {
	v, ok := e.vars[name]
	if !ok {
		return nil, rhlerr.New("undefined variable '"+name+"'").
			WithCode(rhlerr.CodeUndefinedVariable).
			WithDetail("name", name)
	}
	return v, nil
}

// Lookup returns the value bound to name and whether it exists
func (e *Environment) Lookup(name string) (value.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set creates or overwrites a binding. A nil value is stored as Null.
func (e *Environment) Set(name string, v value.Value) {
	if v == nil {
		v = value.Null{}
	}
	e.vars[name] = v
}

// Len returns the number of bindings
func (e *Environment) Len() int {
	return len(e.vars)
}

// Names returns the bound names in lexical order
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

