package postgres

import (
	"context"
	"testing"
	"time"
)

func storefrontTableExists(ctx context.Context, t *testing.T, store *Store, table string) bool {
	t.Helper()

	var exists bool
	err := store.DB().QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		t.Fatalf("check table %s: %v", table, err)
	}
	return exists
}

func TestMigrator_PostgresSchemaLifecycle(t *testing.T) {
	store := openRawPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	// Чистое состояние перед прогоном.
	if err := store.MigrateDown(ctx, 100); err != nil {
		t.Fatalf("migrate down reset: %v", err)
	}
	if version, count, err := store.MigrationStatus(ctx); err != nil || version != 0 || count != 0 {
		t.Fatalf("unexpected status after reset: version=%d count=%d err=%v", version, count, err)
	}
	if storefrontTableExists(ctx, t, store, "products") {
		t.Fatal("products table must be gone after full rollback")
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up all: %v", err)
	}
	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status after up all: %v", err)
	}
	if version != 2 || count != 2 {
		t.Fatalf("unexpected status after up all: version=%d count=%d", version, count)
	}
	for _, table := range []string{"products", "orders", "order_items", "profiles", "order_timeline", "idempotency_keys"} {
		if !storefrontTableExists(ctx, t, store, table) {
			t.Fatalf("table %s must exist after migrations", table)
		}
	}

	// Повторный up ничего не меняет.
	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("idempotent migrate up: %v", err)
	}
	if version, count, err := store.MigrationStatus(ctx); err != nil || version != 2 || count != 2 {
		t.Fatalf("unexpected status after idempotent up: version=%d count=%d err=%v", version, count, err)
	}

	// Один шаг вниз снимает только idempotency-слой.
	if err := store.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("migrate down 1: %v", err)
	}
	if version, count, err := store.MigrationStatus(ctx); err != nil || version != 1 || count != 1 {
		t.Fatalf("unexpected status after down 1: version=%d count=%d err=%v", version, count, err)
	}
	if storefrontTableExists(ctx, t, store, "idempotency_keys") {
		t.Fatal("idempotency_keys must be dropped by one down step")
	}
	if !storefrontTableExists(ctx, t, store, "products") {
		t.Fatal("core schema must survive one down step")
	}

	// steps<=0 для down означает один шаг.
	if err := store.MigrateDown(ctx, 0); err != nil {
		t.Fatalf("migrate down default step: %v", err)
	}
	if version, count, err := store.MigrationStatus(ctx); err != nil || version != 0 || count != 0 {
		t.Fatalf("unexpected status after down default: version=%d count=%d err=%v", version, count, err)
	}

	// Down на пустом состоянии — no-op.
	if err := store.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("migrate down on empty should be no-op: %v", err)
	}
}

func TestMigrator_GuardsAndUnsupportedDirection(t *testing.T) {
	var nilStore *Store
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := nilStore.MigrateUp(ctx, 0); err == nil {
		t.Fatal("expected error for nil store MigrateUp")
	}
	if err := nilStore.MigrateDown(ctx, 1); err == nil {
		t.Fatal("expected error for nil store MigrateDown")
	}
	if _, _, err := nilStore.MigrationStatus(ctx); err == nil {
		t.Fatal("expected error for nil store MigrationStatus")
	}

	store := openRawPostgresStoreForIntegrationTest(t)
	if err := store.migrate(ctx, migrationDirection("invalid"), 0); err == nil {
		t.Fatal("expected unsupported direction error")
	}
}
