package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name:        "sqlite",
	placeholder: func(int) string { return "?" },
	schema: `
		CREATE TABLE IF NOT EXISTS products (
			row_id      INTEGER PRIMARY KEY AUTOINCREMENT,
			id_produit  TEXT    NOT NULL DEFAULT '',
			titre       TEXT    NOT NULL,
			prix        REAL,
			note        REAL,
			nb_avis     INTEGER,
			lien        TEXT    NOT NULL DEFAULT '',
			source      TEXT    NOT NULL,
			date        TEXT    NOT NULL DEFAULT '',
			brand       TEXT    NOT NULL,
			category    TEXT    NOT NULL,
			created_at  TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_products_prix   ON products(prix);
		CREATE INDEX IF NOT EXISTS idx_products_brand  ON products(brand);
		CREATE INDEX IF NOT EXISTS idx_products_source ON products(source);
	`,
}

// SQLiteWriter persists the canonical dataset to a local SQLite file.
type SQLiteWriter struct {
	sqlWriter
}

// NewSQLiteWriter opens (creating if needed) the database at path and runs
// schema migrations.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// a single connection keeps writes serialized on the file
	db.SetMaxOpenConns(1)

	sw := &SQLiteWriter{sqlWriter{db: db, dialect: sqliteDialect}}
	if err := sw.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sw, nil
}
