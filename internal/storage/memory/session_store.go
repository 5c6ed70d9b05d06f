package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// sessionStoreInMemory — процессное хранилище сессий с TTL.
// Используется, когда Redis не настроен.
type sessionStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Session
}

// NewSessionStore создаёт in-memory реализацию SessionStore.
func NewSessionStore() domain.SessionStore {
	return &sessionStoreInMemory{items: make(map[string]domain.Session)}
}

func (s *sessionStoreInMemory) Put(_ context.Context, session domain.Session, ttl time.Duration) error {
	if ttl > 0 {
		session.ExpiresAt = time.Now().UTC().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.Token] = session
	return nil
}

func (s *sessionStoreInMemory) Get(_ context.Context, token string) (domain.Session, error) {
	s.mu.RLock()
	session, ok := s.items[token]
	s.mu.RUnlock()

	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if session.Expired(time.Now().UTC()) {
		// Лениво удаляем истёкшую сессию.
		s.mu.Lock()
		delete(s.items, token)
		s.mu.Unlock()
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreInMemory) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

var _ domain.SessionStore = (*sessionStoreInMemory)(nil)
