// Package dispatch is the Session & Dispatch Core (SDC): it owns per-
// connection session state, converts tool-call requests into Memory
// Service calls, and wraps results/errors in the MCP envelope the
// transports (stdio, HTTP) serve.
package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one client connection's state: which project root and default
// repo/branch scope its tool calls resolve against absent an explicit
// override in a given call's arguments.
type Session struct {
	ID                string
	ClientProjectRoot string
	DefaultRepo       string
	DefaultBranch     string
	CreatedAt         time.Time
	LastActivityAt    time.Time
}

// Touch updates s's last-activity timestamp — called on every tool
// invocation so the idle sweep measures real inactivity.
func (s *Session) Touch() { s.LastActivityAt = time.Now() }

// SessionManager tracks every live session. The stdio transport has exactly
// one; the HTTP transport has one per client connection, keyed by the id
// Create assigns (not the Mcp-Session-Id header, which the go-sdk handler
// manages itself), and sweeps idle entries.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager constructs an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create starts a new session and returns it.
func (m *SessionManager) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		LastActivityAt: now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for id, touching its last-activity time.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.Touch()
	}
	return s, ok
}

// Delete removes a session, e.g. on explicit client disconnect.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// EvictIdle removes every session whose last activity predates the cutoff,
// returning how many were removed. Intended to be called on a ticker by the
// HTTP transport (30-minute idle timeout).
func (m *SessionManager) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastActivityAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
