package usecase

import (
	"sync"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
)

// SessionStatus is the visible search state of one client session
type SessionStatus struct {
	SessionID  string             `json:"sessionId"`
	Generation uint64             `json:"generation"`
	Mode       domain.SearchMode  `json:"mode"`
	State      domain.SearchState `json:"state"`
	Radius     int                `json:"radiusMeters,omitempty"`
	Error      string             `json:"error,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// SessionTracker sequences searches per session. Each new search gets a
// higher generation; only the latest generation may publish its state or result.
type SessionTracker struct {
	mu       sync.Mutex
	sessions map[string]*SessionStatus
	now      func() time.Time
}

// NewSessionTracker creates an empty tracker
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		sessions: make(map[string]*SessionStatus),
		now:      time.Now,
	}
}

// Begin starts a new search for sessionID and returns its generation
func (t *SessionTracker) Begin(sessionID string, mode domain.SearchMode) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.sessions[sessionID]
	if !ok {
		status = &SessionStatus{SessionID: sessionID}
		t.sessions[sessionID] = status
	}
	status.Generation++
	status.Mode = mode
	status.State = domain.StateIdle
	status.Radius = 0
	status.Error = ""
	status.UpdatedAt = t.now()
	return status.Generation
}

// Advance records a state transition. It returns false, and changes
// nothing, when a newer search has started for the session.
func (t *SessionTracker) Advance(sessionID string, generation uint64, state domain.SearchState, radius int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.sessions[sessionID]
	if !ok || status.Generation != generation {
		return false
	}
	status.State = state
	if radius > 0 {
		status.Radius = radius
	}
	status.UpdatedAt = t.now()
	return true
}

// Fail marks the search failed if it is still the latest one
func (t *SessionTracker) Fail(sessionID string, generation uint64, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.sessions[sessionID]
	if !ok || status.Generation != generation {
		return false
	}
	status.State = domain.StateFailed
	if err != nil {
		status.Error = err.Error()
	}
	status.UpdatedAt = t.now()
	return true
}

// IsCurrent reports whether generation is still the latest for sessionID
func (t *SessionTracker) IsCurrent(sessionID string, generation uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.sessions[sessionID]
	return ok && status.Generation == generation
}

// Status returns a copy of the session state
func (t *SessionTracker) Status(sessionID string) (SessionStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.sessions[sessionID]
	if !ok {
		return SessionStatus{}, false
	}
	return *status, true
}
