package timer

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNoActiveSession = errors.New("no active session")

// Session is a snapshot of one user's countdown.
type Session struct {
	CategoryID uuid.UUID
	Timer      Timer
}

// Manager owns the active countdowns, one per user. Starting a new session
// discards whatever was running before. Constructed at process start and
// injected into the handlers that need it.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*managed
}

type managed struct {
	categoryID uuid.UUID
	runner     *Runner
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*managed)}
}

func (m *Manager) Start(userID, categoryID uuid.UUID, durationSeconds int, onComplete func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.sessions[userID]; ok {
		prev.runner.Stop()
	}
	m.sessions[userID] = &managed{
		categoryID: categoryID,
		runner:     NewRunner(durationSeconds, onComplete),
	}
}

func (m *Manager) Pause(userID uuid.UUID) error {
	s, err := m.get(userID)
	if err != nil {
		return err
	}
	s.runner.Pause()
	return nil
}

func (m *Manager) Resume(userID uuid.UUID) error {
	s, err := m.get(userID)
	if err != nil {
		return err
	}
	s.runner.Resume()
	return nil
}

func (m *Manager) Reset(userID uuid.UUID) error {
	s, err := m.get(userID)
	if err != nil {
		return err
	}
	s.runner.Reset()
	return nil
}

func (m *Manager) Status(userID uuid.UUID) (*Session, error) {
	s, err := m.get(userID)
	if err != nil {
		return nil, err
	}
	return &Session{CategoryID: s.categoryID, Timer: s.runner.Snapshot()}, nil
}

// Clear stops and removes the user's session, if any.
func (m *Manager) Clear(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.runner.Stop()
		delete(m.sessions, userID)
	}
}

func (m *Manager) get(userID uuid.UUID) (*managed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}
