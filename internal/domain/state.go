package domain

import (
	"sync"

	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// StateStore holds per-finding detection lifecycle state for one remediation
// session. Entries are created lazily on first use and overwritten on every
// re-attempt; nothing is persisted past the session.
//
// The store is safe for concurrent use across different finding IDs. Two
// concurrent begin/complete pairs for the same ID are not supported and must
// be prevented by the caller.
type StateStore interface {
	// Begin marks a detection attempt as running and clears any prior result.
	Begin(findingID string)
	// Complete records the terminal outcome of a detection attempt.
	Complete(findingID string, outcome m.DetectionOutcome)
	// Read returns a copy of the state for the given finding, and whether
	// any state exists.
	Read(findingID string) (m.DetectionState, bool)
	// TogglePreview flips the UI-only preview flag, which defaults to hidden.
	TogglePreview(findingID string)
}

type stateStore struct {
	mu     sync.Mutex
	states map[string]*m.DetectionState
}

// NewStateStore constructs an empty StateStore.
func NewStateStore() StateStore {
	return &stateStore{
		states: make(map[string]*m.DetectionState),
	}
}

// Begin implements StateStore.
func (s *stateStore) Begin(findingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.entry(findingID)
	state.InProgress = true
	state.Result = nil
}

// Complete implements StateStore.
func (s *stateStore) Complete(findingID string, outcome m.DetectionOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.entry(findingID)
	state.InProgress = false
	state.Result = &outcome
}

// Read implements StateStore.
func (s *stateStore) Read(findingID string) (m.DetectionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[findingID]
	if !ok {
		return m.DetectionState{}, false
	}

	copied := *state
	if state.Result != nil {
		result := *state.Result
		copied.Result = &result
	}

	return copied, true
}

// TogglePreview implements StateStore.
func (s *stateStore) TogglePreview(findingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.entry(findingID)
	state.ShowPreview = !state.ShowPreview
}

// entry returns the state for the ID, creating it lazily. Caller holds the lock.
func (s *stateStore) entry(findingID string) *m.DetectionState {
	state, ok := s.states[findingID]
	if !ok {
		state = &m.DetectionState{}
		s.states[findingID] = state
	}

	return state
}
