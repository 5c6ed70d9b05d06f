package app

import (
	"os"
	"strings"
	"time"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	// HTTPAddr — адрес публичного HTTP API.
	HTTPAddr string
	// MetricsAddr — адрес служебного listener'а (/metrics, /healthz, /livez).
	MetricsAddr string
	// StorageDriver — memory или postgres.
	StorageDriver string
	// PostgresDSN обязателен при StorageDriver=postgres.
	PostgresDSN string
	// RedisAddr — адрес Redis для хранения сессий; пусто = in-memory.
	RedisAddr string
	// KafkaBrokers — список брокеров через запятую; пусто = без Kafka.
	KafkaBrokers string
	// ConfirmDelay — минимальный возраст pending-заказа перед автоподтверждением.
	ConfirmDelay time.Duration
	// ConfirmInterval — период опроса воркера автоподтверждения.
	ConfirmInterval time.Duration
}

// DefaultConfig возвращает конфигурацию для локальной разработки.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		MetricsAddr:     ":9090",
		StorageDriver:   "memory",
		ConfirmDelay:    2 * time.Second,
		ConfirmInterval: time.Second,
	}
}

// ConfigFromEnv читает настройки из окружения поверх значений по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("BAKERY_HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_STORAGE_DRIVER")); v != "" {
		cfg.StorageDriver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_REDIS_ADDR")); v != "" {
		cfg.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_KAFKA_BROKERS")); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_CONFIRM_DELAY")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ConfirmDelay = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("BAKERY_CONFIRM_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ConfirmInterval = d
		}
	}

	return cfg
}
