// Package session tracks predictor sessions: the per-user state that outlives
// a single evaluation, such as the sticky defence limit warning.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// ErrSessionNotFound is returned when a session id is unknown or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Warning is the state of the defence limit warning after an observation.
type Warning struct {
	// Active reports whether the defence limit warning is shown.
	Active bool `json:"active"`
	// Limit is the defence value the warning latched at; zero when inactive.
	Limit float64 `json:"limit"`
}

// Outcome is the result of a session prediction.
type Outcome struct {
	Prediction camping.Prediction `json:"prediction"`
	Warning    Warning            `json:"defence_warning"`
}

// Session is one user's predictor state. All methods are safe for concurrent use.
type Session struct {
	// ID is the session identifier handed to clients.
	ID uuid.UUID
	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	mu       sync.Mutex
	limit    camping.DefenceLimit
	last     *camping.Prediction
	lastSeen time.Time
	now      func() time.Time
}

// Predict evaluates in against t and feeds the resulting defence into the
// session's warning tracker.
//
// Precondition: t must be non-nil and validated.
// Postcondition: On error the warning state and last prediction are unchanged.
func (s *Session) Predict(in camping.Input, t *camping.Tables) (Outcome, error) {
	p, err := camping.Evaluate(in, t)
	if err != nil {
		s.touch()
		return Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.last = &p
	return Outcome{Prediction: p, Warning: s.observeLocked(p.Defence)}, nil
}

// ObserveDefence computes the defence for the given counts without validating
// them and feeds it into the warning tracker.
//
// Postcondition: Returns the computed defence and the warning state after it.
func (s *Session) ObserveDefence(od, improvements int, carry float64) (camping.Defence, Warning) {
	d := camping.ComputeDefence(od, improvements, carry)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return d, s.observeLocked(d)
}

func (s *Session) observeLocked(d camping.Defence) Warning {
	active := s.limit.Observe(d)
	limit, _ := s.limit.Limit()
	return Warning{Active: active, Limit: limit}
}

// Last returns the most recent successful prediction, if any.
func (s *Session) Last() (camping.Prediction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return camping.Prediction{}, false
	}
	return *s.last, true
}

// Warning returns the current warning state without observing anything.
func (s *Session) Warning() Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit, active := s.limit.Limit()
	return Warning{Active: active, Limit: limit}
}

// ResetWarning clears the defence warning so the next evaluation starts fresh.
//
// Postcondition: Warning() reports an inactive warning until the next observation latches it.
func (s *Session) ResetWarning() Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.limit.Reset()
	return Warning{}
}

// LastSeen returns the time of the last request against the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// Manager tracks all open predictor sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

// Create opens a new session with a fresh random id.
//
// Postcondition: The returned session is registered and has no warning active.
func (m *Manager) Create() *Session {
	now := m.now()
	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		lastSeen:  now,
		now:       m.now,
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get returns the session with the given id and marks it as seen.
//
// Postcondition: Returns ErrSessionNotFound if no such session exists.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch()
	return sess, nil
}

// Remove drops the session with the given id.
//
// Postcondition: Returns ErrSessionNotFound if no such session exists.
func (m *Manager) Remove(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune removes every session not seen within ttl of now.
//
// Precondition: ttl must be positive.
// Postcondition: Returns the number of sessions removed.
func (m *Manager) Prune(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		panic("session.Manager.Prune: precondition violated: ttl must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen()) > ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
