package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(out)
	cmd.SetErr(out)

	return cmd, out
}

func TestSimpleUI_RunDetectionPrintsProgress(t *testing.T) {
	cmd, out := newTestCmd()
	ui := NewSimpleUI(cmd)

	err := ui.RunDetection(context.Background(), 2, func(onProgress domain.ProgressFunc) {
		onProgress(domain.ProgressEvent{Index: 0, Total: 2, FindingID: "f1", Outcome: m.Match("src/a.tsx", m.ConfidenceHigh, "exact", 1)})
		onProgress(domain.ProgressEvent{Index: 1, Total: 2, FindingID: "f2", Skipped: true})
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Detecting source files for 2 finding(s)")
	assert.Contains(t, out.String(), "[1/2] f1: src/a.tsx")
	assert.Contains(t, out.String(), "[2/2] f2: skipped")
}

func TestSimpleUI_RunDetectionCancelledContext(t *testing.T) {
	cmd, _ := newTestCmd()
	ui := NewSimpleUI(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ui.RunDetection(ctx, 1, func(domain.ProgressFunc) {
		t.Fatal("run must not be invoked on a cancelled context")
	})
	require.Error(t, err)
}

func TestSimpleUI_DisplayResults(t *testing.T) {
	cmd, out := newTestCmd()
	ui := NewSimpleUI(cmd)

	items := []*m.FindingWithFix{
		{
			Finding:  m.Finding{ID: "f1", RuleID: "image-alt", Severity: m.SeverityCritical},
			FilePath: "src/Hero.tsx",
		},
		{
			Finding: m.Finding{ID: "f2", RuleID: "color-contrast", Severity: m.SeverityModerate},
		},
	}

	read := func(findingID string) (m.DetectionState, bool) {
		if findingID != "f1" {
			return m.DetectionState{}, false
		}

		result := m.Match("src/Hero.tsx", m.ConfidenceHigh, "exact markup fragment found in file", 4)

		return m.DetectionState{Result: &result}, true
	}

	require.NoError(t, ui.DisplayResults(items, read, 1))

	rendered := out.String()
	assert.Contains(t, rendered, "image-alt")
	assert.Contains(t, rendered, "src/Hero.tsx")
	assert.Contains(t, rendered, "color-contrast")
	assert.Contains(t, rendered, "1 of 2 finding(s) mapped with high confidence")
}

func TestRenderResultsTable_CountsMapped(t *testing.T) {
	items := []*m.FindingWithFix{
		{Finding: m.Finding{ID: "f1", RuleID: "r1"}, FilePath: "a.tsx"},
		{Finding: m.Finding{ID: "f2", RuleID: "r2"}},
		nil,
	}

	read := func(string) (m.DetectionState, bool) { return m.DetectionState{}, false }

	table := renderResultsTable(items, read)
	assert.Contains(t, table, "Mapped 1")
	assert.Contains(t, table, "Total 3")
}

func TestOutcomeLabel(t *testing.T) {
	assert.Contains(t, outcomeLabel(m.NoSignal()), "no searchable content")
	assert.Contains(t, outcomeLabel(m.NoMatch()), "no match")
	assert.Contains(t, outcomeLabel(m.WeakMatch("src/x.tsx")), "src/x.tsx")
	assert.Contains(t, outcomeLabel(m.Match("src/y.tsx", m.ConfidenceHigh, "exact", 0)), "src/y.tsx")
}

func TestDetectionModel_ProgressUpdates(t *testing.T) {
	model := newDetectionModel(4)

	updated, _ := model.Update(progressMsg(domain.ProgressEvent{Index: 1, Total: 4, FindingID: "f2", Outcome: m.NoMatch()}))
	next, ok := updated.(detectionModel)
	require.True(t, ok)

	assert.Equal(t, 2, next.done)
	assert.Contains(t, next.View(), "(2/4)")
	assert.Contains(t, next.View(), "f2")
}

func TestDetectionModel_DoneQuits(t *testing.T) {
	model := newDetectionModel(1)

	updated, cmd := model.Update(detectionDoneMsg{})
	next, ok := updated.(detectionModel)
	require.True(t, ok)

	assert.True(t, next.finished)
	require.NotNil(t, cmd)
	assert.Contains(t, next.View(), "Detection complete")
}
