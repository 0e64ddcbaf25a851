package domain

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	m "github.com/jorgejac1/allylab-sub006/internal/model"
	"github.com/jorgejac1/allylab-sub006/pkg"
)

// DefaultDetectionInterval is the minimum gap between resolutions in a batch
// run. It is backpressure against the code-search API's rate limits, not a
// performance knob; do not parallelize the loop instead.
const DefaultDetectionInterval = 200 * time.Millisecond

// ProgressEvent describes one step of a batch detection run.
type ProgressEvent struct {
	Index     int
	Total     int
	FindingID string
	Skipped   bool
	Outcome   m.DetectionOutcome
}

// ProgressFunc receives progress events during RunAll. May be nil.
type ProgressFunc func(event ProgressEvent)

// Orchestrator drives the resolver sequentially across a collection of
// findings that still lack a file path.
type Orchestrator interface {
	// RunAll resolves every item that has a fix and an empty path, in input
	// order, with the configured minimum gap between resolutions. Items
	// already carrying a path are skipped without consuming a request.
	// The run stops scheduling further items once ctx is done; an in-flight
	// resolution is never cancelled. The engine-wide in-progress flag is
	// always cleared on return.
	RunAll(ctx context.Context, items []*m.FindingWithFix, repo m.RepositoryContext, onProgress ProgressFunc)

	// InProgress reports whether a batch run is currently active.
	InProgress() bool

	// CountHighConfidenceMapped counts items that have both a non-empty path
	// and a stored high-confidence match result.
	CountHighConfidenceMapped(items []*m.FindingWithFix) int
}

type orchestrator struct {
	resolver   Resolver
	states     StateStore
	pacer      pkg.Pacer
	inProgress atomic.Bool
}

// NewOrchestrator constructs an Orchestrator with the default inter-request
// interval.
func NewOrchestrator(resolver Resolver, states StateStore) Orchestrator {
	return NewOrchestratorWithPacer(resolver, states, pkg.NewPacer(DefaultDetectionInterval))
}

// NewOrchestratorWithPacer constructs an Orchestrator with a custom pacer.
func NewOrchestratorWithPacer(resolver Resolver, states StateStore, pacer pkg.Pacer) Orchestrator {
	return &orchestrator{
		resolver: resolver,
		states:   states,
		pacer:    pacer,
	}
}

// RunAll implements Orchestrator.
func (o *orchestrator) RunAll(ctx context.Context, items []*m.FindingWithFix, repo m.RepositoryContext, onProgress ProgressFunc) {
	o.inProgress.Store(true)
	defer o.inProgress.Store(false)

	total := len(items)
	slog.Info("starting batch detection", "items", total, "repo", repo.Owner+"/"+repo.Repo)

	for index, item := range items {
		if ctx.Err() != nil {
			slog.Info("batch detection stopped early", "completed", index, "total", total)
			return
		}

		if item == nil || item.Fix == nil || item.FilePath != "" {
			emit(onProgress, ProgressEvent{Index: index, Total: total, FindingID: findingID(item), Skipped: true})
			continue
		}

		if err := o.pacer.Wait(ctx); err != nil {
			slog.Info("batch detection stopped early", "completed", index, "total", total)
			return
		}

		outcome := o.resolver.Resolve(ctx, item, repo)

		slog.Debug("detection step finished",
			"finding", item.Finding.ID,
			"kind", outcome.Kind,
			"path", outcome.Path,
		)

		emit(onProgress, ProgressEvent{Index: index, Total: total, FindingID: item.Finding.ID, Outcome: outcome})
	}

	slog.Info("batch detection finished", "items", total)
}

// InProgress implements Orchestrator.
func (o *orchestrator) InProgress() bool {
	return o.inProgress.Load()
}

// CountHighConfidenceMapped implements Orchestrator.
func (o *orchestrator) CountHighConfidenceMapped(items []*m.FindingWithFix) int {
	count := 0

	for _, item := range items {
		if item == nil || item.FilePath == "" {
			continue
		}

		state, ok := o.states.Read(item.Finding.ID)
		if !ok || state.Result == nil {
			continue
		}

		result := state.Result
		if result.Kind == m.OutcomeMatch && result.Confidence == m.ConfidenceHigh {
			count++
		}
	}

	return count
}

func emit(onProgress ProgressFunc, event ProgressEvent) {
	if onProgress != nil {
		onProgress(event)
	}
}

func findingID(item *m.FindingWithFix) string {
	if item == nil {
		return ""
	}

	return item.Finding.ID
}
