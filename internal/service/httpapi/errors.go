package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError переводит доменную ошибку в HTTP-статус и код.
// Неизвестные ошибки трактуются как отказ хранилища: 502.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := domainErrorStatus(err)
	writeError(w, status, code, err.Error())
}

// domainErrorStatus — единая таблица статусов и кодов для доменных ошибок.
// Через неё проходят и прямые ответы, и кэш idempotency, чтобы повтор
// возвращал тот же статус, что и оригинальный ответ.
func domainErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrPhoneRequired),
		errors.Is(err, domain.ErrAddressRequired),
		errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrEmailInvalid),
		errors.Is(err, domain.ErrPasswordRequired),
		errors.Is(err, domain.ErrProductIDRequired),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrProductPriceInvalid),
		errors.Is(err, domain.ErrCategoryUnknown),
		errors.Is(err, domain.ErrStatusUnknown):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrCredentialsInvalid),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrRoleUnknown):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrProductExists),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrOrderVersionConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		return http.StatusUnprocessableEntity, "idempotency_mismatch"
	default:
		return http.StatusBadGateway, "storage_error"
	}
}
