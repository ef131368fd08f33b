// Package store handles SQLite persistence of the operation history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sorenwolf/klartext/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the operation history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY,
			at TEXT NOT NULL,
			op TEXT NOT NULL,
			cipher TEXT NOT NULL,
			lang TEXT NOT NULL,
			key TEXT NOT NULL,
			distance REAL,
			low_confidence INTEGER NOT NULL,
			input_len INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_operations_at ON operations(at);`,
		`CREATE INDEX IF NOT EXISTS idx_operations_op ON operations(op);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecord appends one operation to the history.
func (s *Store) InsertRecord(ctx context.Context, rec model.HistoryRecord) (int64, error) {
	var distance sql.NullFloat64
	if rec.Distance != nil {
		distance = sql.NullFloat64{Float64: *rec.Distance, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO operations (at, op, cipher, lang, key, distance, low_confidence, input_len)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.At.Format(time.RFC3339Nano),
		rec.Op,
		rec.Cipher,
		rec.Lang,
		rec.Key,
		distance,
		boolToInt(rec.LowConfidence),
		rec.InputLen,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRecords returns history records matching the filter, oldest
// first. Last limits to the most recent N after filtering.
func (s *Store) ListRecords(ctx context.Context, filter model.HistoryFilter) ([]model.HistoryRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Op != "" {
		clauses = append(clauses, "op = ?")
		args = append(args, filter.Op)
	}
	if filter.Cipher != "" {
		clauses = append(clauses, "cipher = ?")
		args = append(args, filter.Cipher)
	}
	if filter.Since != nil {
		clauses = append(clauses, "at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, at, op, cipher, lang, key, distance, low_confidence, input_len
		FROM operations
		WHERE %s
		ORDER BY at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		var at string
		var distance sql.NullFloat64
		var low int
		if err := rows.Scan(&rec.ID, &at, &rec.Op, &rec.Cipher, &rec.Lang, &rec.Key, &distance, &low, &rec.InputLen); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		rec.At = parsed
		if distance.Valid {
			d := distance.Float64
			rec.Distance = &d
		}
		rec.LowConfidence = low != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(records) > filter.Last {
		records = records[len(records)-filter.Last:]
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
