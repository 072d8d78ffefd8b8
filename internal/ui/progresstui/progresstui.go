// Package progresstui is the optional full-screen Bubble Tea progress view:
// a live-scrolling log of progress.Sink notifications with a spinner,
// replacing plain stdout printing when the CLI is run with --tui. It never
// touches the pack/unpack engine directly — engine code depends only on
// progress.Sink, and the CLI layer bridges Notify calls into this model
// through a running *tea.Program, the same way a worker goroutine sends
// messages into a Bubble Tea event loop.
package progresstui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naari3/rkpack/internal/progress"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// logLineMsg carries one progress.Sink notification into the Bubble Tea
// event loop.
type logLineMsg string

// doneMsg signals the background run finished, successfully or not.
type doneMsg struct{ err error }

const maxVisibleLines = 20

type model struct {
	title    string
	spinner  spinner.Model
	lines    []string
	finished bool
	err      error
}

func newModel(title string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return model{title: title, spinner: s}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.finished && (msg.String() == "enter" || msg.String() == "q" || msg.String() == "ctrl+c") {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case logLineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > maxVisibleLines {
			m.lines = m.lines[len(m.lines)-maxVisibleLines:]
		}
		return m, nil
	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	var b string
	if m.finished {
		if m.err != nil {
			b = errStyle.Render("✗ " + m.title + " failed")
		} else {
			b = okStyle.Render("✓ " + m.title + " complete")
		}
	} else {
		b = m.spinner.View() + " " + titleStyle.Render(m.title)
	}
	b += "\n\n"
	for _, line := range m.lines {
		b += dimStyle.Render(line) + "\n"
	}
	if m.finished {
		if m.err != nil {
			b += "\n" + errStyle.Render(m.err.Error()) + "\n"
		}
		b += "\n" + dimStyle.Render("(press enter to exit)") + "\n"
	}
	return b
}

// sink adapts Notify calls into logLineMsg sends against a running program.
type sink struct {
	p *tea.Program
}

func (s sink) Notify(msg string) {
	s.p.Send(logLineMsg(msg))
}

// Run drives fn with a progress.Sink wired to a live Bubble Tea view titled
// title, blocking until the view is dismissed. fn's error is both displayed
// in the final view and returned.
func Run(title string, fn func(sink progress.Sink) error) error {
	m := newModel(title)
	p := tea.NewProgram(m)

	resultCh := make(chan error, 1)
	go func() {
		err := fn(sink{p: p})
		p.Send(doneMsg{err: err})
		resultCh <- err
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("progress view: %w", err)
	}
	return <-resultCh
}
