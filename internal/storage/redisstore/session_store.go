package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// SessionStore хранит сессии в Redis: токен → JSON-снимок сессии.
// TTL обслуживает сам Redis, просроченные ключи исчезают без явного GC.
type SessionStore struct {
	client *redis.Client
}

type sessionPayload struct {
	ProfileID string    `json:"profile_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSessionStore создаёт Redis-реализацию SessionStore поверх готового клиента.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Open подключается к Redis и проверяет доступность.
func Open(ctx context.Context, addr string) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &SessionStore{client: client}, nil
}

func (s *SessionStore) Put(ctx context.Context, session domain.Session, ttl time.Duration) error {
	if ttl > 0 {
		session.ExpiresAt = time.Now().UTC().Add(ttl)
	}

	data, err := json.Marshal(sessionPayload{
		ProfileID: session.ProfileID,
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return domain.Session{
		Token:     token,
		ProfileID: payload.ProfileID,
		Role:      domain.Role(payload.Role),
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Close закрывает подключение к Redis.
func (s *SessionStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func sessionKey(token string) string {
	return fmt.Sprintf("bakery:session:%s", token)
}

var _ domain.SessionStore = (*SessionStore)(nil)
