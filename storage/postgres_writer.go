package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"market-scraper/utils"
)

var postgresDialect = dialect{
	name:        "postgres",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	schema: `
		CREATE TABLE IF NOT EXISTS products (
			row_id      SERIAL PRIMARY KEY,
			id_produit  TEXT          NOT NULL DEFAULT '',
			titre       TEXT          NOT NULL,
			prix        NUMERIC(12,2),
			note        NUMERIC(3,1),
			nb_avis     INTEGER,
			lien        TEXT          NOT NULL DEFAULT '',
			source      VARCHAR(20)   NOT NULL,
			date        TEXT          NOT NULL DEFAULT '',
			brand       VARCHAR(50)   NOT NULL,
			category    VARCHAR(20)   NOT NULL,
			created_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_products_prix   ON products(prix);
		CREATE INDEX IF NOT EXISTS idx_products_brand  ON products(brand);
		CREATE INDEX IF NOT EXISTS idx_products_source ON products(source);
		CREATE INDEX IF NOT EXISTS idx_products_note   ON products(note);
	`,
}

// PostgresWriter persists the canonical dataset to PostgreSQL.
type PostgresWriter struct {
	sqlWriter
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to accept
// connections, runs schema migrations and returns a ready-to-use writer.
func NewPostgresWriter(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 500 * time.Millisecond, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{sqlWriter{db: db, dialect: postgresDialect}}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return pw, nil
}
