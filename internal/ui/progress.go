// Package ui renders batch-upload progress, either as a live terminal
// view or as plain lines when stdout is not a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"mediakit/internal/media"
)

var (
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	workingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorTextWrap = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true)
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ProgressMsg carries one upload status transition into the model.
type ProgressMsg media.UploadProgress

// DoneMsg signals the batch has settled, carrying the hosted URLs
// ("" per failed file).
type DoneMsg struct {
	Results []string
}

type fileState struct {
	name    string
	status  media.UploadStatus
	started bool
	err     error
}

// BatchModel is a bubbletea model showing per-file upload status plus an
// overall progress bar.
type BatchModel struct {
	files   []fileState
	bar     progress.Model
	settled int
	done    bool
	results []string
}

// NewBatchModel builds the model for a list of file paths.
func NewBatchModel(paths []string) *BatchModel {
	files := make([]fileState, len(paths))
	for i, p := range paths {
		files[i] = fileState{name: filepath.Base(p)}
	}
	return &BatchModel{
		files: files,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
}

// Results returns the hosted URLs once the batch has settled.
func (m *BatchModel) Results() []string { return m.results }

func (m *BatchModel) Init() tea.Cmd { return nil }

func (m *BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		if msg.Index < 0 || msg.Index >= len(m.files) {
			return m, nil
		}
		f := &m.files[msg.Index]
		f.status = msg.Status
		f.err = msg.Err
		switch msg.Status {
		case media.StatusUploading:
			f.started = true
		case media.StatusCompleted, media.StatusError:
			m.settled++
		}
		return m, m.bar.SetPercent(float64(m.settled) / float64(len(m.files)))

	case DoneMsg:
		m.done = true
		m.results = msg.Results
		return m, tea.Sequence(m.bar.SetPercent(1), tea.Quit)

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *BatchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Uploading %d files", len(m.files))))
	b.WriteString("\n\n")

	for _, f := range m.files {
		switch {
		case f.status == media.StatusCompleted:
			b.WriteString(doneStyle.Render("✓ " + f.name))
		case f.status == media.StatusError:
			b.WriteString(failStyle.Render("✗ " + f.name))
			if f.err != nil {
				b.WriteString("  " + errorTextWrap.Render(f.err.Error()))
			}
		case f.started:
			b.WriteString(workingStyle.Render("… " + f.name))
		default:
			b.WriteString(pendingStyle.Render("  " + f.name))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.bar.View() + "\n")
	return b.String()
}

// PlainProgress writes one status line per transition, for non-terminal
// output (pipes, CI logs).
func PlainProgress(w io.Writer, paths []string, p media.UploadProgress) {
	if p.Index < 0 || p.Index >= len(paths) {
		return
	}
	name := filepath.Base(paths[p.Index])
	if p.Err != nil {
		fmt.Fprintf(w, "[%d/%d] %s: %s (%v)\n", p.Index+1, len(paths), name, p.Status, p.Err)
		return
	}
	fmt.Fprintf(w, "[%d/%d] %s: %s\n", p.Index+1, len(paths), name, p.Status)
}

// PrintResolved writes a styled provider/URL pair.
func PrintResolved(w io.Writer, label, url string) {
	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(label), urlStyle.Render(url))
}
