package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
// Хранилище — кэш удалённой таблицы; источник истины всегда на стороне записи.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает заказы по убыванию времени создания с опциональным лимитом.
	List(limit int) ([]Order, error)
	// ListPendingBefore возвращает pending-заказы, созданные не позже cutoff.
	// Используется воркером автоподтверждения.
	ListPendingBefore(cutoff time.Time, limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
}

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// List возвращает все товары в стабильном порядке каталога.
	List() ([]Product, error)
	// Get возвращает товар или ErrProductNotFound, если его нет.
	Get(id string) (Product, error)
	// Create добавляет новый товар.
	Create(product Product) error
	// Update перезаписывает существующий товар.
	Update(product Product) error
	// Delete удаляет товар; ErrProductNotFound, если его нет.
	Delete(id string) error
}

// ProfileRepository хранит профили пользователей и их роли.
type ProfileRepository interface {
	// Create добавляет профиль; ErrEmailTaken при дубликате email.
	Create(profile Profile) error
	// Get возвращает профиль по ID или ErrProfileNotFound.
	Get(id string) (Profile, error)
	// GetByEmail возвращает профиль по email или ErrProfileNotFound.
	GetByEmail(email string) (Profile, error)
	// List возвращает все профили (админ-панель пользователей).
	List() ([]Profile, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}
