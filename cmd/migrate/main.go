package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/storage/postgres"
)

const commandTimeout = 30 * time.Second

type options struct {
	direction string
	steps     int
	dsn       string
}

func parseOptions() options {
	var opts options

	flag.StringVar(&opts.direction, "direction", "up", "migration direction: up|down|status")
	flag.IntVar(&opts.steps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	flag.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (fallback: BAKERY_POSTGRES_DSN)")
	flag.Parse()

	opts.direction = strings.ToLower(strings.TrimSpace(opts.direction))
	opts.dsn = strings.TrimSpace(opts.dsn)
	if opts.dsn == "" {
		opts.dsn = strings.TrimSpace(os.Getenv("BAKERY_POSTGRES_DSN"))
	}

	return opts
}

func main() {
	opts := parseOptions()
	if opts.dsn == "" {
		fail("BAKERY_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, opts.dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := runMigration(ctx, store, opts); err != nil {
		fail("%v", err)
	}
}

// runMigration выполняет команду и печатает итоговую версию схемы.
func runMigration(ctx context.Context, store *postgres.Store, opts options) error {
	switch opts.direction {
	case "up":
		if err := store.MigrateUp(ctx, opts.steps); err != nil {
			return fmt.Errorf("migrate up failed: %w", err)
		}
	case "down":
		steps := opts.steps
		if steps <= 0 {
			steps = 1
		}
		if err := store.MigrateDown(ctx, steps); err != nil {
			return fmt.Errorf("migrate down failed: %w", err)
		}
	case "status":
		// Только статус, без изменений схемы.
	default:
		return fmt.Errorf("unsupported direction: %s (use up|down|status)", opts.direction)
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	fmt.Printf("migrate %s ok: version=%d applied=%d\n", opts.direction, version, count)
	return nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
