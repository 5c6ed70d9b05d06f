package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	migrationsGlob    = "sql/migrations/*.sql"
	migrationLockKey  = int64(52280917)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var (
	//go:embed sql/migrations/*.sql
	migrationsFS embed.FS

	migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)
)

type migrationDirection string

const (
	migrationUp   migrationDirection = "up"
	migrationDown migrationDirection = "down"
)

// migrationScript — пара up/down SQL под одним номером версии.
type migrationScript struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

// MigrateUp применяет up-миграции.
// steps=0 означает "применить все доступные".
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.migrate(ctx, migrationUp, steps)
}

// MigrateDown откатывает миграции.
// steps<=0 интерпретируется как 1 шаг для безопасного поведения.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return s.migrate(ctx, migrationDown, steps)
}

// MigrationStatus возвращает текущую версию и количество применённых миграций.
func (s *Store) MigrationStatus(ctx context.Context) (int64, int, error) {
	if s == nil || s.db == nil {
		return 0, 0, fmt.Errorf("postgres store is not initialized")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(queryCtx, migrationTableDDL); err != nil {
		return 0, 0, fmt.Errorf("ensure migration table: %w", err)
	}

	var (
		version int64
		count   int
	)
	if err := s.db.QueryRowContext(queryCtx, `
		SELECT COALESCE(MAX(version), 0), COUNT(*)
		FROM schema_migrations
	`).Scan(&version, &count); err != nil {
		return 0, 0, fmt.Errorf("query migration status: %w", err)
	}

	return version, count, nil
}

func (s *Store) migrate(ctx context.Context, direction migrationDirection, steps int) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	scripts, err := loadMigrationScripts(migrationsFS)
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	return withMigrationLock(ctx, conn, func() error {
		if _, err := conn.ExecContext(ctx, migrationTableDDL); err != nil {
			return fmt.Errorf("ensure migration table: %w", err)
		}

		switch direction {
		case migrationUp:
			return runUp(ctx, conn, scripts, steps)
		case migrationDown:
			return runDown(ctx, conn, scripts, steps)
		default:
			return fmt.Errorf("unsupported migration direction: %s", direction)
		}
	})
}

// withMigrationLock сериализует миграции между экземплярами сервиса
// через advisory lock на одном служебном ключе.
func withMigrationLock(ctx context.Context, conn *sql.Conn, fn func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey)
	}()

	return fn()
}

func runUp(ctx context.Context, conn *sql.Conn, scripts []migrationScript, steps int) error {
	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return err
	}

	done := 0
	for _, script := range scripts {
		if applied[script.Version] {
			continue
		}

		err := inMigrationTx(ctx, conn, script, "up", func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, script.Up); err != nil {
				return fmt.Errorf("execute up migration %d_%s: %w", script.Version, script.Name, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schema_migrations (version, name, applied_at)
				VALUES ($1, $2, NOW())
			`, script.Version, script.Name); err != nil {
				return fmt.Errorf("record up migration %d_%s: %w", script.Version, script.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		done++
		if steps > 0 && done >= steps {
			break
		}
	}

	return nil
}

func runDown(ctx context.Context, conn *sql.Conn, scripts []migrationScript, steps int) error {
	byVersion := make(map[int64]migrationScript, len(scripts))
	for _, script := range scripts {
		byVersion[script.Version] = script
	}

	versions, err := latestAppliedVersions(ctx, conn, steps)
	if err != nil {
		return err
	}

	for _, version := range versions {
		script, ok := byVersion[version]
		if !ok {
			return fmt.Errorf("cannot rollback unknown migration version %d", version)
		}

		err := inMigrationTx(ctx, conn, script, "down", func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, script.Down); err != nil {
				return fmt.Errorf("execute down migration %d_%s: %w", script.Version, script.Name, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, script.Version); err != nil {
				return fmt.Errorf("delete migration record %d_%s: %w", script.Version, script.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// inMigrationTx выполняет один шаг миграции в отдельной транзакции.
func inMigrationTx(ctx context.Context, conn *sql.Conn, script migrationScript, label string, fn func(*sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx (%s %d): %w", label, script.Version, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s migration %d_%s: %w", label, script.Version, script.Name, err)
	}

	return nil
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration version: %w", err)
		}
		result[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}

	return result, nil
}

func latestAppliedVersions(ctx context.Context, conn *sql.Conn, limit int) ([]int64, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT version
		FROM schema_migrations
		ORDER BY version DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations desc: %w", err)
	}
	defer rows.Close()

	versions := make([]int64, 0, limit)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration desc: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations desc: %w", err)
	}

	return versions, nil
}

// loadMigrationScripts читает embedded-каталог миграций и собирает пары
// up/down. Отсутствие любой половины или дубликат — ошибка конфигурации.
func loadMigrationScripts(fsys fs.FS) ([]migrationScript, error) {
	files, err := fs.Glob(fsys, migrationsGlob)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migrationScript)
	for _, file := range files {
		version, name, direction, body, err := parseMigrationFile(fsys, file)
		if err != nil {
			return nil, err
		}

		script, ok := byVersion[version]
		if !ok {
			script = &migrationScript{Version: version, Name: name}
			byVersion[version] = script
		} else if script.Name != name {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, script.Name, name)
		}

		switch direction {
		case "up":
			if script.Up != "" {
				return nil, fmt.Errorf("duplicate up migration for version %d", version)
			}
			script.Up = body
		case "down":
			if script.Down != "" {
				return nil, fmt.Errorf("duplicate down migration for version %d", version)
			}
			script.Down = body
		}
	}

	versions := make([]int64, 0, len(byVersion))
	for version := range byVersion {
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	scripts := make([]migrationScript, 0, len(versions))
	for _, version := range versions {
		script := byVersion[version]
		if script.Up == "" || script.Down == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", script.Version, script.Name)
		}
		scripts = append(scripts, *script)
	}

	return scripts, nil
}

func parseMigrationFile(fsys fs.FS, file string) (version int64, name, direction, body string, err error) {
	base := filepath.Base(file)
	matches := migrationFilePattern.FindStringSubmatch(base)
	if len(matches) != 4 {
		return 0, "", "", "", fmt.Errorf("invalid migration file name: %s", base)
	}

	version, err = strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, "", "", "", fmt.Errorf("parse migration version from %s: %w", base, err)
	}

	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return 0, "", "", "", fmt.Errorf("read migration file %s: %w", file, err)
	}
	body = strings.TrimSpace(string(raw))
	if body == "" {
		return 0, "", "", "", fmt.Errorf("migration file is empty: %s", base)
	}

	return version, matches[2], matches[3], body, nil
}
