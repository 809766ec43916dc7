// Package records defines the record store consumed by the query and
// mutation surfaces.
package records

import (
	"context"
	"errors"

	"networth/internal/core"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateDate = errors.New("a snapshot already exists for this date")
)

type Order int

const (
	Ascending Order = iota
	Descending
)

// Query selects a range scan. Limit <= 0 returns every row.
type Query struct {
	Order Order
	Limit int
}

// SnapshotTable stores one category's dated snapshots, ordered by date then
// insertion.
type SnapshotTable[T any] interface {
	Insert(ctx context.Context, date core.Date, raw T) (core.Snapshot[T], error)
	// Patch runs apply against the stored row atomically. An error from
	// apply aborts the write.
	Patch(ctx context.Context, id int64, apply func(*T) error) (core.Snapshot[T], error)
	Delete(ctx context.Context, id int64) error
	FindByDate(ctx context.Context, date core.Date) (core.Snapshot[T], bool, error)
	List(ctx context.Context, q Query) ([]core.Snapshot[T], error)
}

type CryptoLedger interface {
	Insert(ctx context.Context, tx core.CryptoTransaction) (core.CryptoTransaction, error)
	Delete(ctx context.Context, id int64) error
	// List returns every transaction for platform, or all when platform is empty.
	List(ctx context.Context, platform core.Platform) ([]core.CryptoTransaction, error)
	ListOn(ctx context.Context, platform core.Platform, date core.Date) ([]core.CryptoTransaction, error)
}

type CryptoSummaryTable interface {
	Insert(ctx context.Context, s core.CryptoSummary) (core.CryptoSummary, error)
	Patch(ctx context.Context, id int64, apply func(*core.CryptoSummary) error) (core.CryptoSummary, error)
	List(ctx context.Context) ([]core.CryptoSummary, error)
}

// Store bundles every table. All fields are required.
type Store struct {
	Current            SnapshotTable[core.CurrentAccounts]
	Cash               SnapshotTable[core.CashAccounts]
	Uk                 SnapshotTable[core.UkAccounts]
	Super              SnapshotTable[core.SuperAccounts]
	Investments        SnapshotTable[core.InvestmentAccounts]
	Mortgage           SnapshotTable[core.Mortgage]
	Budget             SnapshotTable[core.Budget]
	CryptoTransactions CryptoLedger
	CryptoSummaries    CryptoSummaryTable
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
