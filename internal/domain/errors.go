package domain

import "errors"

var (
	// Ошибка отсутствующего имени покупателя.
	ErrNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего телефона покупателя.
	ErrPhoneRequired = errors.New("customer phone is required")
	// Ошибка отсутствующего адреса доставки.
	ErrAddressRequired = errors.New("delivery address is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line quantity must be greater than zero")
	// Ошибка отрицательной цены в позиции.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")
	// Ошибка несоответствия итога позиции произведению price*quantity.
	ErrLineTotalMismatch = errors.New("line total does not match price*quantity")
	// Ошибка несоответствия итога заказа сумме позиций.
	ErrTotalMismatch = errors.New("order total does not match lines sum")
	// Ошибка неизвестного статуса заказа.
	ErrStatusUnknown = errors.New("unknown order status")
	// ErrInvalidTransition возвращается при запрещённом переходе статуса.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrCartEmpty — попытка оформить заказ с пустой корзиной.
	ErrCartEmpty = errors.New("cart is empty")

	// Ошибка отсутствующего идентификатора товара.
	ErrProductIDRequired = errors.New("product id is required")
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка неположительной цены товара.
	ErrProductPriceInvalid = errors.New("product price must be positive")
	// Ошибка неизвестной категории товара.
	ErrCategoryUnknown = errors.New("unknown product category")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists — товар с таким ID уже есть в каталоге.
	ErrProductExists = errors.New("product already exists")

	// Ошибка некорректного формата email.
	ErrEmailInvalid = errors.New("email format is invalid")
	// Ошибка отсутствующего пароля.
	ErrPasswordRequired = errors.New("password is required")
	// ErrEmailTaken — учётная запись с таким email уже существует.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrCredentialsInvalid — неверная пара email/пароль.
	ErrCredentialsInvalid = errors.New("invalid credentials")
	// ErrProfileNotFound возвращается, если профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrRoleUnknown — у подписанной identity нет распознаваемой роли.
	ErrRoleUnknown = errors.New("unknown profile role")
	// ErrSessionNotFound — сессия отсутствует или истекла.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden — у сессии недостаточно прав для операции.
	ErrForbidden = errors.New("operation is not permitted for this role")

	// ErrGeoUnavailable — геолокация недоступна (отказ в разрешении или сбой).
	ErrGeoUnavailable = errors.New("geolocation unavailable")

	// Ошибка отсутствующего idempotency-key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// Ошибка отсутствующего хэша запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — запись по ключу уже создана.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
	// ErrIdempotencyHashMismatch — ключ переиспользован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency request hash mismatch")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsInvalidTransition проверяет, является ли ошибка запрещённым переходом статуса.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
