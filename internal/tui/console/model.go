// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     console
// Description: Full-screen REPL console built on bubbletea
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package console

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/internal/repl"
	"github.com/msto63/rhl/internal/tui"
	"github.com/msto63/rhl/pkg/core/version"
)

// Model is the console state
type Model struct {
	width  int
	height int
	ready  bool

	input    textinput.Model
	viewport viewport.Model

	session *repl.Session
	// captures program output and session echoes of one input
	capture *bytes.Buffer

	transcript []string
	history    []string
	histPos    int
	quitting   bool
}

// New builds a console around a fresh interactive interpreter. The
// interpreter's and session's outputs are replaced by the console's
// transcript.
func New(sessOpts repl.Options, iopts interpreter.Options) Model {
	capture := &bytes.Buffer{}
	iopts.Output = capture
	iopts.Interactive = true
	sessOpts.Interpreter = interpreter.New(iopts)
	sessOpts.Output = capture

	ti := textinput.New()
	ti.Placeholder = "expression, statement or exit"
	ti.Prompt = sessOpts.Prompt
	ti.Focus()
	ti.CharLimit = 4000
	ti.Width = 80

	return Model{
		input:   ti,
		session: repl.NewSession(sessOpts),
		capture: capture,
	}
}

// Session returns the console's REPL session
func (m Model) Session() *repl.Session { return m.session }

// Transcript returns the lines shown so far
func (m Model) Transcript() []string { return m.transcript }

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+l":
			m.transcript = nil
			m.updateContent()
			return m, nil

		case "up":
			if m.histPos > 0 {
				m.histPos--
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histPos < len(m.history) {
				m.histPos++
				if m.histPos == len(m.history) {
					m.input.SetValue("")
				} else {
					m.input.SetValue(m.history[m.histPos])
				}
				m.input.CursorEnd()
			}
			return m, nil

		case "enter":
			line := m.input.Value()
			m.input.Reset()
			if m.submit(line) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := msg.Height - 6
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - 6
		m.updateContent()
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit feeds one line to the session and reports whether the console
// should close
func (m *Model) submit(line string) bool {
	prompt := m.session.Prompt()
	m.transcript = append(m.transcript, tui.PromptStyle.Render(prompt)+line)
	if strings.TrimSpace(line) != "" {
		m.history = append(m.history, line)
	}
	m.histPos = len(m.history)

	m.capture.Reset()
	status, err := m.session.Feed(line)
	if out := strings.TrimSuffix(m.capture.String(), "\n"); out != "" {
		m.transcript = append(m.transcript, strings.Split(out, "\n")...)
	}
	if err != nil {
		m.transcript = append(m.transcript, tui.RenderError("session ended: "+err.Error()))
	}
	m.input.Prompt = m.session.Prompt()
	m.updateContent()
	return status == repl.StatusExit || err != nil
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	title := tui.TitleStyle.Render("RHL") + " " + tui.SubtitleStyle.Render("v"+version.Language)
	status := tui.StatusBarStyle.Render(m.statusLine())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		tui.InputStyle.Width(m.width-2).Render(m.input.View()),
		status+" "+tui.RenderHelp("enter: run • ↑/↓: history • ctrl+l: clear • esc: quit"),
	)
}

func (m Model) statusLine() string {
	vars := m.session.Interpreter().Env().Len()
	line := fmt.Sprintf("inputs %d · vars %d · errors %d", m.session.Inputs(), vars, m.session.Errors())
	if m.session.Pending() != "" {
		line += " · continuing"
	}
	return line
}

// Run starts the console on the alternate screen
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
