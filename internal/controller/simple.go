package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	seriousStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	moderateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	minorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// SimpleUI implements UI using cobra Command's Printf.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// RunDetection implements UI. It prints one line per processed item.
func (s *SimpleUI) RunDetection(ctx context.Context, total int, run func(onProgress domain.ProgressFunc)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Printf("Detecting source files for %d finding(s)...\n", total)

	run(func(event domain.ProgressEvent) {
		if event.Skipped {
			s.cmd.Printf("  [%d/%d] %s: skipped\n", event.Index+1, event.Total, event.FindingID)
			return
		}

		s.cmd.Printf("  [%d/%d] %s: %s\n", event.Index+1, event.Total, event.FindingID, outcomeLabel(event.Outcome))
	})

	return nil
}

// DisplayResults implements UI.
func (s *SimpleUI) DisplayResults(items []*m.FindingWithFix, read StateReader, highConfidence int) error {
	s.cmd.Printf("\n%s", renderResultsTable(items, read))
	s.cmd.Printf("\n%d of %d finding(s) mapped with high confidence\n", highConfidence, len(items))

	return nil
}

func outcomeLabel(outcome m.DetectionOutcome) string {
	switch outcome.Kind {
	case m.OutcomeMatch:
		return fmt.Sprintf("%s (%s)", outcome.Path, styleConfidence(outcome.Confidence))
	case m.OutcomeWeakMatch:
		return fmt.Sprintf("%s (%s)", outcome.Path, lowStyle.Render("weak"))
	case m.OutcomeNoSignal:
		return "no searchable content"
	case m.OutcomeNoMatch:
		return "no match"
	}

	return string(outcome.Kind)
}

func styleSeverity(severity m.Severity) string {
	switch severity {
	case m.SeverityCritical:
		return criticalStyle.Render(string(severity))
	case m.SeveritySerious:
		return seriousStyle.Render(string(severity))
	case m.SeverityModerate:
		return moderateStyle.Render(string(severity))
	case m.SeverityMinor:
		return minorStyle.Render(string(severity))
	}

	return string(severity)
}

func styleConfidence(confidence m.Confidence) string {
	switch confidence {
	case m.ConfidenceHigh:
		return highStyle.Render(string(confidence))
	case m.ConfidenceMedium:
		return mediumStyle.Render(string(confidence))
	case m.ConfidenceLow:
		return lowStyle.Render(string(confidence))
	}

	return string(confidence)
}

// renderResultsTable builds the shared per-item outcome table.
func renderResultsTable(items []*m.FindingWithFix, read StateReader) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Severity", "Path", "Confidence", "Reason"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	mapped := 0

	for _, item := range items {
		if item == nil {
			continue
		}

		path := item.FilePath
		if path != "" {
			mapped++
		}

		confidence := ""
		reason := ""

		if state, ok := read(item.Finding.ID); ok && state.Result != nil {
			confidence = styleConfidence(state.Result.Confidence)
			reason = state.Result.Reason
		}

		table.Append([]string{
			item.Finding.RuleID,
			styleSeverity(item.Finding.Severity),
			path,
			confidence,
			reason,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(items)),
		"",
		fmt.Sprintf("Mapped %d", mapped),
		"",
		"",
	})

	table.Render()

	return tableBuffer.String()
}
