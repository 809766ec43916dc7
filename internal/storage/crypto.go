package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"networth/internal/core"
	"networth/internal/records"
)

type cryptoLedger struct {
	db *sql.DB
}

const txColumns = "id, platform, date, type, amount"

func scanTx(row interface{ Scan(...any) error }) (core.CryptoTransaction, error) {
	var (
		tx   core.CryptoTransaction
		date sql.NullInt64
	)
	if err := row.Scan(&tx.ID, &tx.Platform, &date, &tx.Type, &tx.Amount); err != nil {
		return core.CryptoTransaction{}, err
	}
	if date.Valid {
		d := core.Date(date.Int64)
		tx.Date = &d
	}
	return tx, nil
}

func (l *cryptoLedger) Insert(ctx context.Context, tx core.CryptoTransaction) (core.CryptoTransaction, error) {
	var date sql.NullInt64
	if tx.Date != nil {
		date = sql.NullInt64{Int64: int64(*tx.Date), Valid: true}
	}
	res, err := l.db.ExecContext(ctx,
		"INSERT INTO crypto_transactions (platform, date, type, amount) VALUES (?, ?, ?, ?)",
		string(tx.Platform), date, string(tx.Type), tx.Amount)
	if err != nil {
		return core.CryptoTransaction{}, fmt.Errorf("insert crypto transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.CryptoTransaction{}, fmt.Errorf("insert crypto transaction: read id: %w", err)
	}
	tx.ID = id

	slog.InfoContext(ctx, "Crypto transaction saved to SQLite",
		"id", id,
		"platform", tx.Platform,
		"type", tx.Type,
		"amount", tx.Amount.String())
	return tx, nil
}

func (l *cryptoLedger) Delete(ctx context.Context, id int64) error {
	res, err := l.db.ExecContext(ctx, "DELETE FROM crypto_transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete crypto transaction %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete crypto transaction %d: %w", id, err)
	} else if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (l *cryptoLedger) List(ctx context.Context, platform core.Platform) ([]core.CryptoTransaction, error) {
	if platform == "" {
		return l.query(ctx, "SELECT "+txColumns+" FROM crypto_transactions ORDER BY id")
	}
	return l.query(ctx, "SELECT "+txColumns+" FROM crypto_transactions WHERE platform = ? ORDER BY id", string(platform))
}

func (l *cryptoLedger) ListOn(ctx context.Context, platform core.Platform, date core.Date) ([]core.CryptoTransaction, error) {
	return l.query(ctx,
		"SELECT "+txColumns+" FROM crypto_transactions WHERE platform = ? AND date = ? ORDER BY id",
		string(platform), int64(date))
}

func (l *cryptoLedger) query(ctx context.Context, query string, args ...any) ([]core.CryptoTransaction, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list crypto transactions: %w", err)
	}
	defer rows.Close()

	var out []core.CryptoTransaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crypto transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

type cryptoSummaries struct {
	db *sql.DB
}

const summaryColumns = "id, platform, total_deposited, total_withdrawn, current_value"

func scanSummary(row interface{ Scan(...any) error }) (core.CryptoSummary, error) {
	var s core.CryptoSummary
	err := row.Scan(&s.ID, &s.Platform, &s.TotalDeposited, &s.TotalWithdrawn, &s.CurrentValue)
	return s, err
}

func (c *cryptoSummaries) Insert(ctx context.Context, s core.CryptoSummary) (core.CryptoSummary, error) {
	res, err := c.db.ExecContext(ctx,
		"INSERT INTO crypto_summaries (platform, total_deposited, total_withdrawn, current_value) VALUES (?, ?, ?, ?)",
		string(s.Platform), s.TotalDeposited, s.TotalWithdrawn, s.CurrentValue)
	if err != nil {
		return core.CryptoSummary{}, fmt.Errorf("insert crypto summary: %w", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return core.CryptoSummary{}, fmt.Errorf("insert crypto summary: read id: %w", err)
	}
	return s, nil
}

func (c *cryptoSummaries) Patch(ctx context.Context, id int64, apply func(*core.CryptoSummary) error) (core.CryptoSummary, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return core.CryptoSummary{}, fmt.Errorf("begin patch crypto summary: %w", err)
	}
	defer tx.Rollback()

	s, err := scanSummary(tx.QueryRowContext(ctx, "SELECT "+summaryColumns+" FROM crypto_summaries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.CryptoSummary{}, records.ErrNotFound
	}
	if err != nil {
		return core.CryptoSummary{}, fmt.Errorf("load crypto summary %d: %w", id, err)
	}
	if err := apply(&s); err != nil {
		return core.CryptoSummary{}, err
	}
	s.ID = id

	if _, err := tx.ExecContext(ctx,
		"UPDATE crypto_summaries SET total_deposited = ?, total_withdrawn = ?, current_value = ? WHERE id = ?",
		s.TotalDeposited, s.TotalWithdrawn, s.CurrentValue, id); err != nil {
		return core.CryptoSummary{}, fmt.Errorf("update crypto summary %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.CryptoSummary{}, fmt.Errorf("commit patch crypto summary: %w", err)
	}
	return s, nil
}

func (c *cryptoSummaries) List(ctx context.Context) ([]core.CryptoSummary, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT "+summaryColumns+" FROM crypto_summaries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list crypto summaries: %w", err)
	}
	defer rows.Close()

	var out []core.CryptoSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crypto summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
