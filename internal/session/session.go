// Package session tracks authenticated users: login issues an opaque token,
// every operation carries the token, logout and expiry invalidate it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edouardv/campus-manager/internal/models"
)

type Session struct {
	Token     string
	UserID    int64
	Role      models.Role
	ExpiresAt time.Time
}

type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	byToken  map[string]Session
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		ttl:     ttl,
		byToken: make(map[string]Session),
		now:     time.Now,
	}
}

// Open creates a session for an authenticated user and returns its token.
func (m *Manager) Open(userID int64, role models.Role) Session {
	s := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.mu.Lock()
	m.byToken[s.Token] = s
	m.mu.Unlock()
	return s
}

// Get resolves a token to its live session; expired sessions read as absent.
func (m *Manager) Get(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byToken[token]
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.byToken, token)
		return Session{}, false
	}
	return s, true
}

func (m *Manager) Close(token string) {
	m.mu.Lock()
	delete(m.byToken, token)
	m.mu.Unlock()
}

// CloseUser drops every session of one user, e.g. when the admin deletes
// the account.
func (m *Manager) CloseUser(userID int64) {
	m.mu.Lock()
	for tok, s := range m.byToken {
		if s.UserID == userID {
			delete(m.byToken, tok)
		}
	}
	m.mu.Unlock()
}

// Sweep evicts expired sessions; wired as a background job.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for tok, s := range m.byToken {
		if now.After(s.ExpiresAt) {
			delete(m.byToken, tok)
			n++
		}
	}
	return n
}

func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byToken)
}
