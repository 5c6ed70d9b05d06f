package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/storage/memory"
	"github.com/vladislavdragonenkov/bakery/internal/storage/postgres"
	"github.com/vladislavdragonenkov/bakery/internal/storage/redisstore"
)

// Dependencies содержит хранилища и внешние подключения приложения.
type Dependencies struct {
	Products    domain.ProductRepository
	Orders      domain.OrderRepository
	Timeline    domain.TimelineRepository
	Profiles    domain.ProfileRepository
	Idempotency domain.IdempotencyRepository
	Sessions    domain.SessionStore

	// PgStore отличен от nil только при StorageDriver=postgres.
	PgStore *postgres.Store
	// RedisSessions отличен от nil только при заданном RedisAddr.
	RedisSessions *redisstore.SessionStore

	Logger *log.Entry
}

// NewDependencies собирает хранилища согласно конфигурации.
// memory-драйвер не требует внешних сервисов и используется по умолчанию.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.StorageDriver {
	case "", "memory":
		deps.Products = memory.NewProductRepository()
		deps.Orders = memory.NewOrderRepository()
		deps.Timeline = memory.NewTimelineRepository()
		deps.Profiles = memory.NewProfileRepository()
		deps.Idempotency = memory.NewIdempotencyRepository()
		logger.Info("используется in-memory хранилище")
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires BAKERY_POSTGRES_DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.PgStore = store
		deps.Products = postgres.NewProductRepository(store)
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Timeline = postgres.NewTimelineRepository(store)
		deps.Profiles = postgres.NewProfileRepository(store)
		deps.Idempotency = postgres.NewIdempotencyRepository(store)
		logger.Info("используется postgres хранилище")
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}

	if cfg.RedisAddr != "" {
		sessions, err := redisstore.Open(ctx, cfg.RedisAddr)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		deps.RedisSessions = sessions
		deps.Sessions = sessions
		logger.WithField("addr", cfg.RedisAddr).Info("сессии хранятся в redis")
	} else {
		deps.Sessions = memory.NewSessionStore()
	}

	return deps, nil
}

// Close закрывает внешние подключения.
func (d *Dependencies) Close() {
	if d.RedisSessions != nil {
		if err := d.RedisSessions.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close redis")
		}
	}
	if d.PgStore != nil {
		if err := d.PgStore.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres")
		}
	}
}
