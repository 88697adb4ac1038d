package lsp

import (
	"strings"
	"unicode/utf8"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
)

const diagnosticSource = "rhl"

// toDiagnostic converts an error with a 1-based rune position into a
// diagnostic covering the character at that position
func toDiagnostic(text string, err error) Diagnostic {
	d := Diagnostic{Severity: 1, Source: diagnosticSource, Message: err.Error()}

	e, ok := rhlerr.As(err)
	if !ok {
		return d
	}
	d.Code = string(e.Code())
	d.Message = e.Message()

	line, col, ok := e.Position()
	if !ok {
		return d
	}
	d.Range = charRange(text, line, col)
	return d
}

// charRange maps a 1-based line and rune column to an LSP range spanning
// one character, or an empty range past the end of the line
func charRange(text string, line, col int) Range {
	lines := strings.Split(text, "\n")
	l := line - 1
	if l < 0 {
		l = 0
	}
	if l >= len(lines) {
		l = len(lines) - 1
	}
	src := strings.TrimSuffix(lines[l], "\r")

	start, width := 0, 0
	for i, r := range []rune(src) {
		if i == col-1 {
			width = utf16Len(r)
			break
		}
		start += utf16Len(r)
	}
	return Range{
		Start: Position{Line: l, Character: start},
		End:   Position{Line: l, Character: start + width},
	}
}

func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
