package controller

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// TUI implements UI with an interactive Bubble Tea progress display.
type TUI struct {
	cmd *cobra.Command
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

// RunDetection implements UI. The detection run and the Bubble Tea program
// run concurrently; progress events are forwarded as messages.
func (t *TUI) RunDetection(ctx context.Context, total int, run func(onProgress domain.ProgressFunc)) error {
	model := newDetectionModel(total)

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 20 {
		model.progress.Width = width - 10
	}

	program := tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()), tea.WithContext(ctx))

	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		_, err := program.Run()
		return err
	})

	group.Go(func() error {
		run(func(event domain.ProgressEvent) {
			program.Send(progressMsg(event))
		})
		program.Send(detectionDoneMsg{})

		return nil
	})

	return group.Wait()
}

// DisplayResults implements UI. The final table is plain output, printed once
// the interactive program has exited.
func (t *TUI) DisplayResults(items []*m.FindingWithFix, read StateReader, highConfidence int) error {
	t.cmd.Printf("\n%s", renderResultsTable(items, read))
	t.cmd.Printf("\n%d of %d finding(s) mapped with high confidence\n", highConfidence, len(items))

	return nil
}

type progressMsg domain.ProgressEvent

type detectionDoneMsg struct{}

var (
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// detectionModel is the Bubble Tea model for a batch detection run.
type detectionModel struct {
	spinner  spinner.Model
	progress progress.Model
	total    int
	done     int
	lastLine string
	finished bool
}

func newDetectionModel(total int) detectionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return detectionModel{
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		total:    total,
	}
}

// Init implements tea.Model.
func (d detectionModel) Init() tea.Cmd {
	return d.spinner.Tick
}

// Update implements tea.Model.
func (d detectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return d, tea.Quit
		}

	case progressMsg:
		d.done = msg.Index + 1
		d.lastLine = progressLine(domain.ProgressEvent(msg))

		if d.total > 0 {
			return d, d.progress.SetPercent(float64(d.done) / float64(d.total))
		}

		return d, nil

	case detectionDoneMsg:
		d.finished = true
		return d, tea.Quit

	case progress.FrameMsg:
		updated, cmd := d.progress.Update(msg)
		if p, ok := updated.(progress.Model); ok {
			d.progress = p
		}

		return d, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)

		return d, cmd
	}

	return d, nil
}

// View implements tea.Model.
func (d detectionModel) View() string {
	if d.finished {
		return doneStyle.Render(fmt.Sprintf("Detection complete (%d/%d)", d.done, d.total)) + "\n"
	}

	header := fmt.Sprintf("%s Detecting source files... (%d/%d)", d.spinner.View(), d.done, d.total)

	view := header + "\n" + d.progress.View() + "\n"
	if d.lastLine != "" {
		view += currentStyle.Render(d.lastLine) + "\n"
	}

	return view
}

func progressLine(event domain.ProgressEvent) string {
	if event.Skipped {
		return fmt.Sprintf("%s: skipped (path already set)", event.FindingID)
	}

	return fmt.Sprintf("%s: %s", event.FindingID, string(event.Outcome.Kind))
}
