// Package tokendump prints token sequences as an aligned table. The type
// column is colored with an RGB color derived from the type name, so the
// same type always gets the same color.
package tokendump

import (
	"fmt"
	"hash/fnv"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
)

// Options controls the table layout
type Options struct {
	// Color enables 24-bit ANSI colors on the type column
	Color bool
	// Positions adds a line:col column
	Positions bool
}

var headers = []string{"INDEX", "KIND", "VALUE", "TYPE"}

// Row is one formatted table row
type Row struct {
	Index    string
	Kind     string
	Value    string
	Type     string
	Position string
}

// Rows formats tokens without rendering them
func Rows(tokens []token.Token) []Row {
	rows := make([]Row, 0, len(tokens))
	for i, t := range tokens {
		rows = append(rows, Row{
			Index:    strconv.Itoa(i),
			Kind:     t.Kind.String(),
			Value:    displayValue(t),
			Type:     TypeName(t),
			Position: t.Pos.String(),
		})
	}
	return rows
}

// TypeName is the payload type of t, or "-" for tokens without payload
func TypeName(t token.Token) string {
	if t.Value == nil {
		return "-"
	}
	return value.TypeOf(t.Value).String()
}

func displayValue(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return ""
	case token.String, token.Comment:
		return strconv.Quote(t.Text())
	}
	return t.Text()
}

// TypeColor hashes name into a bright RGB color
func TypeColor(name string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum32()
	r := byte(sum>>16)%128 + 128
	g := byte(sum>>8)%128 + 128
	b := byte(sum)%128 + 128
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

// Write renders the table to w
func Write(w io.Writer, tokens []token.Token, opts Options) error {
	renderer := lipgloss.NewRenderer(w)
	if opts.Color {
		renderer.SetColorProfile(termenv.TrueColor)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	header := renderer.NewStyle().Bold(true)

	cols := headers
	if opts.Positions {
		cols = append(append([]string{}, headers...), "POS")
	}
	rows := Rows(tokens)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Index, r.Kind, r.Value, r.Type}
		if opts.Positions {
			cells[i] = append(cells[i], r.Position)
		}
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c)
	}
	for _, row := range cells {
		for i, c := range row {
			if n := lipgloss.Width(c); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for i, c := range cols {
		b.WriteString(header.Render(pad(c, widths[i], i == len(cols)-1)))
		if i < len(cols)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for r, row := range cells {
		for i, c := range row {
			cell := pad(c, widths[i], i == len(row)-1)
			if i == 3 {
				cell = renderer.NewStyle().Foreground(TypeColor(rows[r].Type)).Render(cell)
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// pad right-pads s to width; the last column is not padded
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
