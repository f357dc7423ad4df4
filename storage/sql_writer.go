package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"market-scraper/models"
)

// dialect captures the few SQL differences between the supported databases.
type dialect struct {
	name        string
	placeholder func(n int) string
	schema      string
}

// sqlWriter persists the canonical dataset into a "products" table. Each
// Write replaces the table contents, mirroring the CSV overwrite.
type sqlWriter struct {
	db      *sql.DB
	dialect dialect
}

// productColumns is the table column order used for inserts and reads.
var productColumns = []string{
	"id_produit", "titre", "prix", "note", "nb_avis",
	"lien", "source", "date", "brand", "category",
}

const insertBatchSize = 50

var (
	_ DatasetStore = (*PostgresWriter)(nil)
	_ DatasetStore = (*SQLiteWriter)(nil)
)

func (w *sqlWriter) migrate() error {
	_, err := w.db.Exec(w.dialect.schema)
	if err != nil {
		return fmt.Errorf("%s: migrate: %w", w.dialect.name, err)
	}
	return nil
}

// Write replaces the stored products with table inside one transaction.
func (w *sqlWriter) Write(table *models.Table) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin: %w", w.dialect.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM products"); err != nil {
		return fmt.Errorf("%s: clear: %w", w.dialect.name, err)
	}

	var records []models.ProductRecord
	if table != nil {
		records = table.Records
	}
	for i := 0; i < len(records); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := w.insertBatch(tx, records[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", w.dialect.name, err)
	}
	return nil
}

func (w *sqlWriter) insertBatch(tx *sql.Tx, batch []models.ProductRecord) error {
	n := len(productColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, r := range batch {
		marks := make([]string, n)
		for j := range marks {
			marks[j] = w.dialect.placeholder(idx*n + j + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(marks, ",")+")")
		valueArgs = append(valueArgs,
			r.ID, r.Title, nullFloat(r.Price), nullFloat(r.Rating), nullInt(r.Reviews),
			r.Link, string(r.Source), r.Date, r.Brand, r.Category)
	}

	query := fmt.Sprintf("INSERT INTO products (%s) VALUES %s",
		strings.Join(productColumns, ", "), strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("%s: insert batch: %w", w.dialect.name, err)
	}
	return nil
}

// FetchAll reads every stored product back in insertion order.
func (w *sqlWriter) FetchAll() (*models.Table, error) {
	rows, err := w.db.Query(fmt.Sprintf("SELECT %s FROM products ORDER BY row_id",
		strings.Join(productColumns, ", ")))
	if err != nil {
		return nil, fmt.Errorf("%s: fetch all: %w", w.dialect.name, err)
	}
	defer rows.Close()

	table := &models.Table{Columns: append([]string(nil), models.CanonicalColumns...)}
	for rows.Next() {
		var (
			r       models.ProductRecord
			source  string
			price   sql.NullFloat64
			rating  sql.NullFloat64
			reviews sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Title, &price, &rating, &reviews,
			&r.Link, &source, &r.Date, &r.Brand, &r.Category); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", w.dialect.name, err)
		}
		r.Source = models.Source(source)
		if price.Valid {
			r.Price = models.Float(price.Float64)
		}
		if rating.Valid {
			r.Rating = models.Float(rating.Float64)
		}
		if reviews.Valid {
			r.Reviews = models.Int(int(reviews.Int64))
		}
		table.Records = append(table.Records, r)
	}
	return table, rows.Err()
}

func (w *sqlWriter) Close() error {
	return w.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
