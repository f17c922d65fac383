// Package schema embeds the Postgres DDL and applies it in file order
package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"compsync/internal/platform/logger"
	"compsync/internal/platform/store"
)

//go:embed *.sql
var files embed.FS

// Files lists the embedded migrations in apply order
func Files() []string {
	names, _ := fs.Glob(files, "*.sql")
	sort.Strings(names)
	return names
}

// Apply runs every migration not yet recorded in schema_migrations, each in its own tx.
// Statements are idempotent so a partially applied file can be rerun.
func Apply(ctx context.Context, tx store.TxRunner) ([]string, error) {
	if _, err := tx.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`); err != nil {
		return nil, fmt.Errorf("schema: bootstrap: %w", err)
	}

	log := logger.Named("schema")
	var applied []string
	for _, name := range Files() {
		var done bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&done); err != nil {
			return applied, fmt.Errorf("schema: check %s: %w", name, err)
		}
		if done {
			continue
		}
		body, err := files.ReadFile(name)
		if err != nil {
			return applied, err
		}
		err = tx.Tx(ctx, func(q store.RowQuerier) error {
			if _, err := q.Exec(ctx, string(body)); err != nil {
				return err
			}
			_, err := q.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("schema: apply %s: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("applied")
		applied = append(applied, name)
	}
	return applied, nil
}
