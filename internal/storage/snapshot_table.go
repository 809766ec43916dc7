package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"networth/internal/core"
	"networth/internal/records"
)

// snapshotTable implements records.SnapshotTable over one SQL table.
type snapshotTable[T any] struct {
	db   *sql.DB
	cols columns[T]
}

func newSnapshotTable[T any](db *sql.DB, cols columns[T]) *snapshotTable[T] {
	return &snapshotTable[T]{db: db, cols: cols}
}

func (t *snapshotTable[T]) selectList() string {
	return "id, date, " + strings.Join(t.cols.names, ", ")
}

func (t *snapshotTable[T]) scan(row interface{ Scan(...any) error }) (core.Snapshot[T], error) {
	var s core.Snapshot[T]
	dest := append([]any{&s.ID, &s.Date}, t.cols.fields(&s.Raw)...)
	if err := row.Scan(dest...); err != nil {
		return core.Snapshot[T]{}, err
	}
	return s, nil
}

func (t *snapshotTable[T]) Insert(ctx context.Context, date core.Date, raw T) (core.Snapshot[T], error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.cols.names)+1), ", ")
	query := fmt.Sprintf("INSERT INTO %s (date, %s) VALUES (%s)",
		t.cols.table, strings.Join(t.cols.names, ", "), placeholders)

	args := append([]any{int64(date)}, t.cols.values(raw)...)
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Snapshot[T]{}, fmt.Errorf("insert %s on %s: %w", t.cols.table, date, records.ErrDuplicateDate)
		}
		return core.Snapshot[T]{}, fmt.Errorf("insert %s: %w", t.cols.table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("insert %s: read id: %w", t.cols.table, err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite", "table", t.cols.table, "id", id, "date", date.String())
	return core.Snapshot[T]{ID: id, Date: date, Raw: raw}, nil
}

// Patch reads, applies and writes back inside one transaction.
func (t *snapshotTable[T]) Patch(ctx context.Context, id int64, apply func(*T) error) (core.Snapshot[T], error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("begin patch %s: %w", t.cols.table, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", t.selectList(), t.cols.table), id)
	s, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot[T]{}, records.ErrNotFound
	}
	if err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("load %s %d: %w", t.cols.table, id, err)
	}

	if err := apply(&s.Raw); err != nil {
		return core.Snapshot[T]{}, err
	}

	assignments := make([]string, len(t.cols.names))
	for i, n := range t.cols.names {
		assignments[i] = n + " = ?"
	}
	args := append(t.cols.values(s.Raw), id)
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.cols.table, strings.Join(assignments, ", ")),
		args...); err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("update %s %d: %w", t.cols.table, id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("commit patch %s: %w", t.cols.table, err)
	}
	return s, nil
}

func (t *snapshotTable[T]) Delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.cols.table), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", t.cols.table, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", t.cols.table, id, err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (t *snapshotTable[T]) FindByDate(ctx context.Context, date core.Date) (core.Snapshot[T], bool, error) {
	row := t.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE date = ? ORDER BY id LIMIT 1", t.selectList(), t.cols.table),
		int64(date))
	s, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot[T]{}, false, nil
	}
	if err != nil {
		return core.Snapshot[T]{}, false, fmt.Errorf("find %s on %s: %w", t.cols.table, date, err)
	}
	return s, true, nil
}

func (t *snapshotTable[T]) List(ctx context.Context, q records.Query) ([]core.Snapshot[T], error) {
	order := "ASC"
	if q.Order == records.Descending {
		order = "DESC"
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY date %s, id %s", t.selectList(), t.cols.table, order, order)
	var args []any
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.cols.table, err)
	}
	defer rows.Close()

	var out []core.Snapshot[T]
	for rows.Next() {
		s, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.cols.table, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.cols.table, err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
