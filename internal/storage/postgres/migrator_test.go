package postgres

import (
	"strings"
	"testing"
	"testing/fstest"
)

func migrationFile(sql string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(sql)}
}

func TestLoadMigrationScripts_Success(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_products.up.sql":   migrationFile("CREATE TABLE products (id TEXT PRIMARY KEY);"),
		"sql/migrations/0001_products.down.sql": migrationFile("DROP TABLE IF EXISTS products;"),
		"sql/migrations/0002_orders.up.sql":     migrationFile("CREATE TABLE orders (id TEXT PRIMARY KEY);"),
		"sql/migrations/0002_orders.down.sql":   migrationFile("DROP TABLE IF EXISTS orders;"),
	}

	scripts, err := loadMigrationScripts(fsys)
	if err != nil {
		t.Fatalf("loadMigrationScripts failed: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 scripts, got %d", len(scripts))
	}

	if scripts[0].Version != 1 || scripts[0].Name != "products" {
		t.Fatalf("unexpected first script: %+v", scripts[0])
	}
	if scripts[1].Version != 2 || scripts[1].Name != "orders" {
		t.Fatalf("unexpected second script: %+v", scripts[1])
	}
	if !strings.Contains(scripts[0].Up, "CREATE TABLE products") {
		t.Errorf("up body must be kept, got %q", scripts[0].Up)
	}
	if !strings.Contains(scripts[1].Down, "DROP TABLE IF EXISTS orders") {
		t.Errorf("down body must be kept, got %q", scripts[1].Down)
	}
}

func TestLoadMigrationScripts_MissingDown(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_products.up.sql": migrationFile("CREATE TABLE products (id TEXT PRIMARY KEY);"),
	}

	_, err := loadMigrationScripts(fsys)
	if err == nil {
		t.Fatal("expected error for missing down migration")
	}
	if !strings.Contains(err.Error(), "both up and down") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMigrationScripts_NameMismatch(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_products.up.sql": migrationFile("CREATE TABLE products (id TEXT PRIMARY KEY);"),
		"sql/migrations/0001_orders.down.sql": migrationFile("DROP TABLE IF EXISTS products;"),
	}

	_, err := loadMigrationScripts(fsys)
	if err == nil {
		t.Fatal("expected error for mismatched migration names")
	}
	if !strings.Contains(err.Error(), "name mismatch") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMigrationScripts_InvalidFilename(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/not_a_migration.sql": migrationFile("SELECT 1;"),
	}

	_, err := loadMigrationScripts(fsys)
	if err == nil {
		t.Fatal("expected error for invalid migration file name")
	}
}

func TestLoadMigrationScripts_EmptyFile(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_products.up.sql":   migrationFile("   \n"),
		"sql/migrations/0001_products.down.sql": migrationFile("DROP TABLE IF EXISTS products;"),
	}

	_, err := loadMigrationScripts(fsys)
	if err == nil {
		t.Fatal("expected error for empty migration file body")
	}
}

func TestLoadMigrationScripts_EmbeddedSchema(t *testing.T) {
	t.Parallel()

	scripts, err := loadMigrationScripts(migrationsFS)
	if err != nil {
		t.Fatalf("embedded migrations must load: %v", err)
	}
	if len(scripts) < 2 {
		t.Fatalf("expected at least core schema and idempotency migrations, got %d", len(scripts))
	}
	if !strings.Contains(scripts[0].Up, "products") {
		t.Errorf("first migration must create the storefront schema, got %q", scripts[0].Name)
	}
}
