package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions maps opaque tokens to user identities. The in-memory
// implementation below is single-process; deployments with multiple server
// instances need a backend implementing this interface over shared storage.
type Sessions interface {
	Create(userID int) string
	Resolve(token string) (int, bool)
	Destroy(token string)
}

type session struct {
	userID    int
	expiresAt time.Time
}

// MemorySessions is an in-memory session store.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
}

func (m *MemorySessions) Create(userID int) string {
	token := uuid.New().String()
	m.mu.Lock()
	m.sessions[token] = session{
		userID:    userID,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
	return token
}

func (m *MemorySessions) Resolve(token string) (int, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if time.Now().After(sess.expiresAt) {
		m.Destroy(token)
		return 0, false
	}
	return sess.userID, true
}

func (m *MemorySessions) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
