// internal/tui/progress.go
// Package tui renders live grading progress in the terminal.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/autograde/internal/grading"
	"github.com/mwiater/autograde/internal/report"
)

// recentLimit is how many graded submissions stay on screen.
const recentLimit = 6

// GradedMsg reports one finished submission.
type GradedMsg struct {
	Record grading.Record
}

// DoneMsg ends the program once the run has finished.
type DoneMsg struct {
	Err error
}

// model is the Bubble Tea model for a grading run.
type model struct {
	total    int
	done     int
	failures int
	recent   []string
	spinner  spinner.Model
	bar      progress.Model
	cancel   context.CancelFunc
	finished bool
	err      error
}

// newModel returns a model expecting total submissions. cancel is invoked
// when the user interrupts the run.
func newModel(total int, cancel context.CancelFunc) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return &model{
		total:   total,
		spinner: s,
		bar:     bar,
		cancel:  cancel,
	}
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles grading events, key presses and spinner ticks.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 10 && w < 80 {
			m.bar.Width = w
		}

	case GradedMsg:
		m.done++
		if msg.Record.Failed() {
			m.failures++
		}
		m.recent = append(m.recent, report.ConsoleLine(msg.Record))
		if len(m.recent) > recentLimit {
			m.recent = m.recent[len(m.recent)-recentLimit:]
		}
		return m, nil

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// percent returns the completed fraction of the run.
func (m *model) percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

// View renders the progress bar and the most recent submissions.
func (m *model) View() string {
	var b strings.Builder

	status := m.spinner.View() + " Grading"
	if m.finished {
		status = "Done"
		if m.err != nil {
			status = "Aborted: " + m.err.Error()
		}
	}
	b.WriteString(fmt.Sprintf("\n  %s %d/%d", status, m.done, m.total))
	if m.failures > 0 {
		b.WriteString(fmt.Sprintf(" (%d skipped)", m.failures))
	}
	b.WriteString("\n  " + m.bar.ViewAs(m.percent()) + "\n\n")

	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// Progress drives a Bubble Tea program from pipeline callbacks.
type Progress struct {
	program *tea.Program
	done    chan error
}

// Start launches the progress display for total submissions on out.
func Start(out io.Writer, total int, cancel context.CancelFunc) *Progress {
	p := &Progress{
		program: tea.NewProgram(newModel(total, cancel), tea.WithOutput(out)),
		done:    make(chan error, 1),
	}
	go func() {
		_, err := p.program.Run()
		p.done <- err
	}()
	return p
}

// Graded forwards one finished submission to the display.
func (p *Progress) Graded(record grading.Record) {
	p.program.Send(GradedMsg{Record: record})
}

// Finish stops the display and waits for it to restore the terminal.
func (p *Progress) Finish(err error) error {
	p.program.Send(DoneMsg{Err: err})
	return <-p.done
}
