package schedule

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists rows to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS schedule (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        week INTEGER NOT NULL,
        aircraft TEXT NOT NULL,
        motor TEXT NOT NULL,
        is_leased INTEGER NOT NULL,
        cycles REAL NOT NULL
    );`
	index := `CREATE INDEX IF NOT EXISTS schedule_week ON schedule (week);`
	if err := execAll(db, schema, index); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func execAll(db *sql.DB, stmts ...string) error {
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Append writes the rows of a week in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, rows []Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO schedule (week, aircraft, motor, is_leased, cycles) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Week, r.Aircraft, r.Motor, r.Leased, r.Cycles); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Query returns rows matching q ordered by week and insertion order.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Row, error) {
	var args []any
	query := `SELECT week, aircraft, motor, is_leased, cycles FROM schedule WHERE week >= ?`
	args = append(args, q.FromWeek)
	if q.HasToWeek {
		query += ` AND week <= ?`
		args = append(args, q.ToWeek)
	}
	if q.Aircraft != "" {
		query += ` AND aircraft = ?`
		args = append(args, q.Aircraft)
	}
	if q.Motor != "" {
		query += ` AND motor = ?`
		args = append(args, q.Motor)
	}
	if q.LeasedOnly {
		query += ` AND is_leased = 1`
	}
	query += ` ORDER BY week, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Week, &r.Aircraft, &r.Motor, &r.Leased, &r.Cycles); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
