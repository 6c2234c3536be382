package editor

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("edit session not found")

// entry ties a session to its owner and source photo.
type entry struct {
	session   *Session
	userID    string
	sourceURL string
	openedAt  time.Time
}

// Manager tracks open edit sessions in memory. Sessions are transient:
// they exist between open and save/cancel and are swept when abandoned.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	maxAge   time.Duration
}

// NewManager creates a session manager.
func NewManager(maxAge time.Duration) *Manager {
	if maxAge <= 0 {
		maxAge = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*entry),
		maxAge:   maxAge,
	}
}

// Put registers an open session under an ID.
func (m *Manager) Put(id, userID, sourceURL string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &entry{
		session:   s,
		userID:    userID,
		sourceURL: sourceURL,
		openedAt:  time.Now(),
	}
}

// Get returns the session and its source URL, checking ownership.
func (m *Manager) Get(id, userID string) (*Session, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok || e.userID != userID {
		return nil, "", ErrSessionNotFound
	}
	return e.session, e.sourceURL, nil
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep cancels and removes sessions older than the max age.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.maxAge)
	for id, e := range m.sessions {
		if e.openedAt.Before(cutoff) {
			e.session.Cancel()
			delete(m.sessions, id)
		}
	}
}

// Run sweeps abandoned sessions until the stop channel closes.
func (m *Manager) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-stop:
			return
		}
	}
}
