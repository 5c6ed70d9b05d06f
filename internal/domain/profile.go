package domain

import "time"

// Role определяет права подписанной identity.
type Role string

const (
	// RoleAdmin — доступ к админ-панели: заказы, товары, пользователи.
	RoleAdmin Role = "admin"
	// RoleUser — доступ к витрине: каталог, корзина, свои заказы.
	RoleUser Role = "user"
)

// Valid проверяет, что роль относится к поддерживаемым значениям.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// Profile — строка таблицы профилей, привязанная к identity сервиса аутентификации.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	CreatedAt time.Time
}

// Session представляет выданный токен доступа и его область действия.
type Session struct {
	Token     string
	ProfileID string
	Role      Role
	ExpiresAt time.Time
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
