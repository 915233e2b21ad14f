package repo

import (
	"context"
	"encoding/json"
	"sync"

	"deckgen/internal/domain"
)

// MemorySessionRepository keeps session snapshots in process memory. Used
// in development and tests when no DATABASE_URL is configured.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string][]byte)}
}

func (r *MemorySessionRepository) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = data
	return nil
}

func (r *MemorySessionRepository) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	data, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

// MemoryUsageRepository tracks lifetime slide counts in process memory.
type MemoryUsageRepository struct {
	mu   sync.Mutex
	used map[string]int
}

func NewMemoryUsageRepository() *MemoryUsageRepository {
	return &MemoryUsageRepository{used: make(map[string]int)}
}

func (r *MemoryUsageRepository) Used(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used[userID], nil
}

func (r *MemoryUsageRepository) Add(ctx context.Context, userID string, n int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used[userID] += n
	return r.used[userID], nil
}

var (
	_ domain.SessionRepository = (*MemorySessionRepository)(nil)
	_ domain.UsageRepository   = (*MemoryUsageRepository)(nil)
)
