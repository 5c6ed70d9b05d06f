package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

type contextKey string

const sessionContextKey contextKey = "session"

// sessionFromContext достаёт сессию, положенную requireSession.
func sessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(domain.Session)
	return session, ok
}

// requireSession резолвит bearer-токен в сессию и кладёт её в контекст.
// Запрос без валидной сессии отклоняется с 401.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		session, err := h.gate.Resolve(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "valid session token required")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin пускает дальше только сессии с ролью admin.
// Роль берётся из сессии, выданной gate, а не из запроса.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "valid session token required")
			return
		}
		if session.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
