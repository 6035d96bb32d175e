package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type rawExecutor interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

type migration struct {
	version string
	upSQL   string
}

// Migrate applies every embedded migration not yet recorded in schema_migrations
// and returns the versions it applied, in order.
func Migrate(ctx context.Context, db *bun.DB) ([]string, error) {
	migs, err := loadMigrations(migrationFiles)
	if err != nil {
		return nil, err
	}

	if _, err := db.NewRaw(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`).Exec(ctx); err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migs {
		err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext('schema_migrations'))").Exec(ctx); err != nil {
				return err
			}
			var n int
			if err := tx.NewRaw("SELECT count(*) FROM schema_migrations WHERE version = ?", m.version).Scan(ctx, &n); err != nil {
				return err
			}
			if n > 0 {
				return nil
			}
			if err := applyStatements(ctx, tx, m.upSQL); err != nil {
				return fmt.Errorf("migration %s: %w", m.version, err)
			}
			if _, err := tx.NewRaw("INSERT INTO schema_migrations (version) VALUES (?)", m.version).Exec(ctx); err != nil {
				return err
			}
			applied = append(applied, m.version)
			return nil
		})
		if err != nil {
			return applied, err
		}
	}
	return applied, nil
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		upSQL, err := extractGooseUp(string(b))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		version := strings.TrimSuffix(name[strings.LastIndex(name, "/")+1:], ".sql")
		out = append(out, migration{version: version, upSQL: upSQL})
	}
	return out, nil
}

func applyStatements(ctx context.Context, exec rawExecutor, upSQL string) error {
	for _, stmt := range splitSQLStatements(upSQL) {
		if _, err := exec.NewRaw(stmt).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := sql[upIdx+len(upMarker):]
	afterUp = strings.TrimLeft(afterUp, "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

// splitSQLStatements splits on semicolons; migrations must not embed them in bodies.
func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
