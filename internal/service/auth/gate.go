package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

const defaultSessionTTL = 24 * time.Hour

// Area — зона приложения, в которую маршрутизируется подписанная identity.
type Area string

const (
	// AreaAdmin — админ-панель: все заказы, товары, пользователи.
	AreaAdmin Area = "admin"
	// AreaStorefront — витрина покупателя.
	AreaStorefront Area = "storefront"
)

// Gate связывает внешний сервис аутентификации с профилями и сессиями.
// Роль берётся только из таблицы профилей, никогда из запроса клиента.
type Gate struct {
	provider domain.IdentityProvider
	profiles domain.ProfileRepository
	sessions domain.SessionStore
	logger   *log.Entry

	sessionTTL time.Duration
	now        func() time.Time
}

// NewGate создаёт gate с TTL сессии по умолчанию.
func NewGate(
	provider domain.IdentityProvider,
	profiles domain.ProfileRepository,
	sessions domain.SessionStore,
	logger *log.Entry,
) *Gate {
	if logger == nil {
		logger = log.WithField("component", "auth-gate")
	}
	return &Gate{
		provider:   provider,
		profiles:   profiles,
		sessions:   sessions,
		logger:     logger,
		sessionTTL: defaultSessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SignUp регистрирует identity и создаёт профиль с ролью user.
// Роль admin назначается только на стороне данных, регистрация её не выдаёт.
func (g *Gate) SignUp(ctx context.Context, email, password, fullName string) (domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Profile{}, domain.ErrEmailInvalid
	}
	if password == "" {
		return domain.Profile{}, domain.ErrPasswordRequired
	}

	identityID, err := g.provider.SignUp(ctx, email, password)
	if err != nil {
		return domain.Profile{}, err
	}

	profile := domain.Profile{
		ID:        identityID,
		Email:     email,
		FullName:  fullName,
		Role:      domain.RoleUser,
		CreatedAt: g.now(),
	}
	if err := g.profiles.Create(profile); err != nil {
		g.logger.WithError(err).WithField("email", email).Error("failed to create profile")
		return domain.Profile{}, err
	}

	g.logger.WithField("profile_id", profile.ID).Info("profile registered")
	return profile, nil
}

// SignIn проверяет учётные данные и выдаёт сессию. Если профиля ещё нет
// (identity заведена вне регистрации), создаётся профиль с ролью user.
func (g *Gate) SignIn(ctx context.Context, email, password string) (domain.Session, domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	identityID, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return domain.Session{}, domain.Profile{}, err
	}

	profile, err := g.profiles.Get(identityID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return domain.Session{}, domain.Profile{}, err
		}
		profile = domain.Profile{
			ID:        identityID,
			Email:     email,
			Role:      domain.RoleUser,
			CreatedAt: g.now(),
		}
		if createErr := g.profiles.Create(profile); createErr != nil {
			return domain.Session{}, domain.Profile{}, createErr
		}
		g.logger.WithField("profile_id", profile.ID).Info("profile created on first sign-in")
	}

	session := domain.Session{
		Token:     uuid.NewString(),
		ProfileID: profile.ID,
		Role:      profile.Role,
		ExpiresAt: g.now().Add(g.sessionTTL),
	}
	if err := g.sessions.Put(ctx, session, g.sessionTTL); err != nil {
		return domain.Session{}, domain.Profile{}, err
	}

	return session, profile, nil
}

// SignOut отзывает сессию. Отзыв неизвестного токена — no-op.
func (g *Gate) SignOut(ctx context.Context, token string) error {
	return g.sessions.Delete(ctx, token)
}

// Resolve возвращает сессию по токену или ErrSessionNotFound.
func (g *Gate) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	session, err := g.sessions.Get(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Expired(g.now()) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// AreaFor маршрутизирует роль в зону приложения.
// Неизвестная роль блокируется с ErrRoleUnknown, доступ по умолчанию не выдаётся.
func AreaFor(role domain.Role) (Area, error) {
	switch role {
	case domain.RoleAdmin:
		return AreaAdmin, nil
	case domain.RoleUser:
		return AreaStorefront, nil
	default:
		return "", domain.ErrRoleUnknown
	}
}
