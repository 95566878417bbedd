package session

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

type memoryEntry struct {
	sess      *models.QuizSession
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore whose sessions live for ttl after their last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.QuizSession, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[id]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return e.sess.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, sess *models.QuizSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sess.ID] = memoryEntry{
		sess:      sess.Clone(),
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet evicted.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// PurgeExpired drops every expired entry and returns how many were removed.
func (m *MemoryStore) PurgeExpired(ctx context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}
