package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrInterrupted is returned by ReadLine when the user aborts the
// current input (Ctrl-C on a terminal)
var ErrInterrupted = errors.New("input interrupted")

// LineReader supplies input lines to a session. ReadLine returns io.EOF
// when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// NewLineReader picks a line-editing reader when in is a terminal and a
// plain buffered reader otherwise. historyFile is only used on a
// terminal; empty disables persistent history.
func NewLineReader(in io.Reader, out io.Writer, historyFile string) LineReader {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newTerminalReader(historyFile)
	}
	return NewPlainReader(in, out)
}

// terminalReader wraps liner for editing and history
type terminalReader struct {
	state       *liner.State
	historyFile string
}

func newTerminalReader(historyFile string) *terminalReader {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = st.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &terminalReader{state: st, historyFile: historyFile}
}

func (r *terminalReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	return line, err
}

func (r *terminalReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *terminalReader) Close() error {
	if r.historyFile != "" {
		if f, err := os.Create(r.historyFile); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.state.Close()
}

// PlainReader reads newline-terminated lines and echoes prompts to out
type PlainReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPlainReader returns a reader over in; out may be nil to suppress
// prompts
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *PlainReader) ReadLine(prompt string) (string, error) {
	if r.out != nil {
		fmt.Fprint(r.out, prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *PlainReader) AppendHistory(string) {}

func (r *PlainReader) Close() error { return nil }
