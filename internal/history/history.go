package history

import (
	"sync"

	"campus-lostfound/internal/llm"
)

// Manager keeps one ordered conversation per session key.
type Manager struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string][]llm.Message
}

// NewManager returns a manager that keeps every turn.
func NewManager() *Manager {
	return NewManagerWithLimit(0)
}

// NewManagerWithLimit keeps at most limit most recent turns per session.
// A limit <= 0 means unbounded, and the whole conversation is resent on every turn.
func NewManagerWithLimit(limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{limit: limit, sessions: make(map[string][]llm.Message)}
}

func (m *Manager) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

func (m *Manager) AppendUser(key, content string) {
	m.append(key, llm.Message{Role: llm.RoleUser, Content: content})
}

func (m *Manager) AppendAssistant(key, content string) {
	m.append(key, llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (m *Manager) append(key string, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	es := append(m.sessions[key], msg)
	if m.limit > 0 && len(es) > m.limit {
		es = append([]llm.Message(nil), es[len(es)-m.limit:]...)
	}
	m.sessions[key] = es
}

// Get returns a copy of the session's turns in order.
func (m *Manager) Get(key string) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	es := m.sessions[key]
	out := make([]llm.Message, len(es))
	copy(out, es)
	return out
}

func (m *Manager) Len(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[key])
}

// Keys returns the sessions that currently hold at least one turn.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for k, es := range m.sessions {
		if len(es) > 0 {
			out = append(out, k)
		}
	}
	return out
}
