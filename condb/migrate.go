package condb

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in order; never edit an applied one, append a
// new version instead.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create users",
		SQL: `
CREATE TABLE users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Version: 2,
		Name:    "create products",
		SQL: `
CREATE TABLE products (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	brand          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	price          DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	sizes          TEXT[] NOT NULL DEFAULT '{}',
	colors         TEXT[] NOT NULL DEFAULT '{}',
	image          TEXT,
	count_in_stock INTEGER NOT NULL DEFAULT 0 CHECK (count_in_stock >= 0),
	rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
	num_reviews    INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Version: 3,
		Name:    "index products by brand and price",
		SQL:     `CREATE INDEX products_brand_price_idx ON products (brand, price)`,
	},
}

// Migrate applies every migration newer than the recorded schema version,
// each in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range pending(migrations, current) {
		err := pool.BeginFunc(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		log.Infow("Applied migration", "version", m.Version, "name", m.Name)
	}
	return nil
}

func pending(all []migration, current int) []migration {
	var out []migration
	for _, m := range all {
		if m.Version > current {
			out = append(out, m)
		}
	}
	return out
}
