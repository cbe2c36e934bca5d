package session

import "sync"

// Manager keeps one isolated session per chat.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, sessions: map[int64]*Session{}}
}

// Get returns the chat's session, starting an empty one on first use.
func (m *Manager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = New(m.deps)
		m.sessions[chatID] = s
	}
	return s
}

// End tears down the chat's session.
func (m *Manager) End(chatID int64) {
	m.mu.Lock()
	s, ok := m.sessions[chatID]
	delete(m.sessions, chatID)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
