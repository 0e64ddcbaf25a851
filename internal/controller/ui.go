// Package controller provides output adapters for displaying detection
// progress and results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// StateReader looks up the recorded detection state for a finding ID.
type StateReader func(findingID string) (m.DetectionState, bool)

// UI displays a batch detection run and its results. Implementations can use
// different output methods (simple text, TUI).
type UI interface {
	// RunDetection drives the given run function, wiring its progress events
	// into the display. It returns once the run has finished.
	RunDetection(ctx context.Context, total int, run func(onProgress domain.ProgressFunc)) error

	// DisplayResults renders the per-item outcome table and summary.
	DisplayResults(items []*m.FindingWithFix, read StateReader, highConfidence int) error
}

// NewUI returns a TUI when interactive display is requested and a plain text
// UI otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
