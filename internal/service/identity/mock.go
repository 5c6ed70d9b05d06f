package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// MockProvider — конфигурируемая заглушка IdentityProvider.
// Хранит зарегистрированные identity в памяти; используется в тестах
// и при запуске без внешнего сервиса аутентификации.
type MockProvider struct {
	SignUpErr error
	SignInErr error

	SignUpCalls int
	SignInCalls int

	mu       sync.Mutex
	accounts map[string]account
}

type account struct {
	id       string
	password string
}

// NewMockProvider возвращает провайдер без заранее заведённых identity.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		accounts: make(map[string]account),
	}
}

// Seed регистрирует identity без проверок и возвращает её идентификатор.
func (m *MockProvider) Seed(email, password string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.accounts[normalizeEmail(email)] = account{id: id, password: password}
	return id
}

// SignUp регистрирует identity. Повторная регистрация email возвращает ErrEmailTaken.
func (m *MockProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	m.SignUpCalls++
	if m.SignUpErr != nil {
		return "", m.SignUpErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(email)
	if _, exists := m.accounts[key]; exists {
		return "", domain.ErrEmailTaken
	}

	id := uuid.NewString()
	m.accounts[key] = account{id: id, password: password}
	return id, nil
}

// SignIn проверяет пару email/пароль. Неизвестный email и неверный пароль
// неразличимы для вызывающего: оба дают ErrCredentialsInvalid.
func (m *MockProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	m.SignInCalls++
	if m.SignInErr != nil {
		return "", m.SignInErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[normalizeEmail(email)]
	if !ok || acc.password != password {
		return "", domain.ErrCredentialsInvalid
	}
	return acc.id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ domain.IdentityProvider = (*MockProvider)(nil)
