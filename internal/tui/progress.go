// internal/tui/progress.go

// Package tui renders a small spinner display while an evaluation or
// benchmark run is in flight. The run executes in a background goroutine and
// feeds progress messages into the Bubble Tea program; the terminal stays
// responsive and q/ctrl+c aborts the run.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/evalon/internal/util"
)

// ProgressMsg reports the prompt currently in flight.
type ProgressMsg struct {
	Stage   string
	Prompt  string
	Current int
	Total   int
}

// DoneMsg signals the run finished; Err is non-nil when it failed.
type DoneMsg struct {
	Err error
}

var (
	titleStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	stageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type progressModel struct {
	title   string
	spinner spinner.Model
	stage   string
	prompt  string
	current int
	total   int
	err     error
	aborted bool
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return progressModel{
		title:   title,
		spinner: s,
	}
}

// Init starts the spinner animation.
func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles spinner ticks, progress messages, and key presses.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	case ProgressMsg:
		m.stage = msg.Stage
		m.prompt = msg.Prompt
		m.current = msg.Current
		m.total = msg.Total
		return m, nil
	case DoneMsg:
		m.err = msg.Err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the current run state.
func (m progressModel) View() string {
	if m.stage == "" {
		return fmt.Sprintf("\n  %s %s\n", m.spinner.View(), titleStyle.Render(m.title))
	}
	line := fmt.Sprintf("%s [%d/%d]", stageStyle.Render(m.stage), m.current, m.total)
	prompt := dimStyle.Render(util.TruncateRunes(m.prompt, 60))
	return fmt.Sprintf("\n  %s %s\n  %s %s\n", m.spinner.View(), titleStyle.Render(m.title), line, prompt)
}

// Runner wraps a Bubble Tea program around a long-running job that reports
// progress.
type Runner struct {
	program *tea.Program
}

// NewRunner builds a progress display with the given title.
func NewRunner(title string) *Runner {
	return &Runner{
		program: tea.NewProgram(newProgressModel(title)),
	}
}

// Report feeds one progress update into the display. Safe to call from the
// job goroutine.
func (r *Runner) Report(stage, prompt string, current, total int) {
	r.program.Send(ProgressMsg{Stage: stage, Prompt: prompt, Current: current, Total: total})
}

// Run starts the display, executes job in a goroutine, and blocks until the
// job completes or the user aborts. It returns the job's error, or an abort
// error when the user quit early.
func (r *Runner) Run(job func() error) error {
	done := make(chan error, 1)
	go func() {
		err := job()
		done <- err
		r.program.Send(DoneMsg{Err: err})
	}()

	final, err := r.program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(progressModel); ok && m.aborted {
		return fmt.Errorf("run aborted")
	}
	return <-done
}
