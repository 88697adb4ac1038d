package interpreter

import (
	"io"
	"strings"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/value"
)

// EffectKind distinguishes observable effects of a run
type EffectKind int

const (
	// OutputEffect is one line written to the output sink
	OutputEffect EffectKind = iota
	// AssignmentEffect is a top-level variable assignment
	AssignmentEffect
)

func (k EffectKind) String() string {
	if k == AssignmentEffect {
		return "assignment"
	}
	return "output"
}

// Assignment records a variable mutation
type Assignment struct {
	Name  string
	Value value.Value
}

func (a Assignment) String() string {
	return a.Name + " = " + a.Value.String()
}

// Effect is one entry of a run's effect log
type Effect struct {
	Kind       EffectKind
	Text       string
	Assignment *Assignment
}

func (e Effect) String() string {
	if e.Kind == AssignmentEffect && e.Assignment != nil {
		return e.Assignment.String()
	}
	return e.Text
}

// Result is the outcome of Run. Runs are fail-fast, so Diagnostics holds
// at most one error.
type Result struct {
	Effects     []Effect
	Diagnostics []*rhlerr.Error

	// Value of the last top-level statement; nil when none completed.
	// LastAssigned is set when that statement was an assignment.
	Value        value.Value
	LastAssigned bool

	// Incomplete is set in interactive mode when the input ended inside a
	// statement. Pending is the byte offset where that statement starts.
	Incomplete bool
	Pending    int

	// Steps executed, counting statements and loop iterations
	Steps int
}

// Err returns the first diagnostic or nil
func (r Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	return r.Diagnostics[0]
}

// Output returns the output lines in program order
func (r Result) Output() []string {
	var lines []string
	for _, e := range r.Effects {
		if e.Kind == OutputEffect {
			lines = append(lines, e.Text)
		}
	}
	return lines
}

// Assignments returns the top-level assignments in program order
func (r Result) Assignments() []Assignment {
	var out []Assignment
	for _, e := range r.Effects {
		if e.Kind == AssignmentEffect && e.Assignment != nil {
			out = append(out, *e.Assignment)
		}
	}
	return out
}

// effectWriter passes program output through to the sink and records
// every completed line as an OutputEffect.
type effectWriter struct {
	dst     io.Writer
	result  *Result
	partial strings.Builder
}

func (w *effectWriter) Write(b []byte) (int, error) {
	n, err := w.dst.Write(b)
	w.partial.Write(b[:n])
	text := w.partial.String()
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			break
		}
		w.result.Effects = append(w.result.Effects, Effect{Kind: OutputEffect, Text: strings.TrimSuffix(text[:i], "\r")})
		text = text[i+1:]
	}
	w.partial.Reset()
	w.partial.WriteString(text)
	return n, err
}

func (w *effectWriter) flush() {
	if w.partial.Len() > 0 {
		w.result.Effects = append(w.result.Effects, Effect{Kind: OutputEffect, Text: w.partial.String()})
		w.partial.Reset()
	}
}
