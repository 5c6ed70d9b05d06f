package domain

import (
	"context"
	"time"
)

// Coordinates — пара широта/долгота.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder описывает взаимодействие с сервисом геолокации.
// Все операции best-effort: отказ не блокирует бизнес-операции.
type Geocoder interface {
	// Locate возвращает текущие координаты устройства/клиента.
	Locate(ctx context.Context) (Coordinates, error)
	// ReverseGeocode превращает координаты в человекочитаемый адрес.
	ReverseGeocode(ctx context.Context, coords Coordinates) (string, error)
}

// IdentityProvider описывает взаимодействие с внешним сервисом аутентификации.
type IdentityProvider interface {
	// SignUp регистрирует identity и возвращает её идентификатор.
	SignUp(ctx context.Context, email, password string) (string, error)
	// SignIn проверяет пару email/пароль и возвращает идентификатор identity.
	SignIn(ctx context.Context, email, password string) (string, error)
}

// SessionStore хранит активные сессии с TTL.
type SessionStore interface {
	Put(ctx context.Context, session Session, ttl time.Duration) error
	// Get возвращает сессию или ErrSessionNotFound, если токен неизвестен или истёк.
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}
