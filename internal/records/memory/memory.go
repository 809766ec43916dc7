// Package memory is an in-process record store. Rows live in slices kept
// sorted by date then insertion order.
package memory

import (
	"context"
	"slices"
	"sync"

	"networth/internal/core"
	"networth/internal/records"
)

// NewStore returns a Store whose tables are all in memory.
func NewStore() *records.Store {
	return &records.Store{
		Current:            NewTable[core.CurrentAccounts](),
		Cash:               NewTable[core.CashAccounts](),
		Uk:                 NewTable[core.UkAccounts](),
		Super:              NewTable[core.SuperAccounts](),
		Investments:        NewTable[core.InvestmentAccounts](),
		Mortgage:           NewTable[core.Mortgage](),
		Budget:             NewTable[core.Budget](),
		CryptoTransactions: NewLedger(),
		CryptoSummaries:    NewSummaries(),
	}
}

// Table is a mutex guarded snapshot table.
type Table[T any] struct {
	mu     sync.Mutex
	nextID int64
	rows   []core.Snapshot[T]
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{nextID: 1}
}

func (t *Table[T]) Insert(_ context.Context, date core.Date, raw T) (core.Snapshot[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := core.Snapshot[T]{ID: t.nextID, Date: date, Raw: raw}
	t.nextID++
	// insert after every row dated <= date so ties keep insertion order
	i, _ := slices.BinarySearchFunc(t.rows, date+1, func(r core.Snapshot[T], d core.Date) int {
		switch {
		case r.Date < d:
			return -1
		case r.Date > d:
			return 1
		}
		return 0
	})
	t.rows = slices.Insert(t.rows, i, s)
	return s, nil
}

func (t *Table[T]) Patch(_ context.Context, id int64, apply func(*T) error) (core.Snapshot[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return core.Snapshot[T]{}, records.ErrNotFound
	}
	raw := t.rows[i].Raw
	if err := apply(&raw); err != nil {
		return core.Snapshot[T]{}, err
	}
	t.rows[i].Raw = raw
	return t.rows[i], nil
}

func (t *Table[T]) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return records.ErrNotFound
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	return nil
}

// FindByDate returns the first row stored for date.
func (t *Table[T]) FindByDate(_ context.Context, date core.Date) (core.Snapshot[T], bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.rows {
		if r.Date == date {
			return r, true, nil
		}
	}
	return core.Snapshot[T]{}, false, nil
}

func (t *Table[T]) List(_ context.Context, q records.Query) ([]core.Snapshot[T], error) {
	t.mu.Lock()
	out := slices.Clone(t.rows)
	t.mu.Unlock()
	if q.Order == records.Descending {
		slices.Reverse(out)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (t *Table[T]) indexOf(id int64) int {
	return slices.IndexFunc(t.rows, func(r core.Snapshot[T]) bool { return r.ID == id })
}

// Ledger holds crypto transactions in insertion order.
type Ledger struct {
	mu     sync.Mutex
	nextID int64
	items  []core.CryptoTransaction
}

func NewLedger() *Ledger {
	return &Ledger{nextID: 1}
}

func (l *Ledger) Insert(_ context.Context, tx core.CryptoTransaction) (core.CryptoTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx.ID = l.nextID
	l.nextID++
	if tx.Date != nil {
		d := *tx.Date
		tx.Date = &d
	}
	l.items = append(l.items, tx)
	return tx, nil
}

func (l *Ledger) Delete(_ context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.items, func(tx core.CryptoTransaction) bool { return tx.ID == id })
	if i < 0 {
		return records.ErrNotFound
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

func (l *Ledger) List(_ context.Context, platform core.Platform) ([]core.CryptoTransaction, error) {
	return l.filter(func(tx core.CryptoTransaction) bool {
		return platform == "" || tx.Platform == platform
	}), nil
}

func (l *Ledger) ListOn(_ context.Context, platform core.Platform, date core.Date) ([]core.CryptoTransaction, error) {
	return l.filter(func(tx core.CryptoTransaction) bool {
		return tx.Platform == platform && tx.Date != nil && *tx.Date == date
	}), nil
}

func (l *Ledger) filter(keep func(core.CryptoTransaction) bool) []core.CryptoTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.CryptoTransaction, 0, len(l.items))
	for _, tx := range l.items {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Summaries holds crypto summaries in insertion order.
type Summaries struct {
	mu     sync.Mutex
	nextID int64
	items  []core.CryptoSummary
}

func NewSummaries() *Summaries {
	return &Summaries{nextID: 1}
}

func (s *Summaries) Insert(_ context.Context, cs core.CryptoSummary) (core.CryptoSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs.ID = s.nextID
	s.nextID++
	s.items = append(s.items, cs)
	return cs, nil
}

func (s *Summaries) Patch(_ context.Context, id int64, apply func(*core.CryptoSummary) error) (core.CryptoSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(cs core.CryptoSummary) bool { return cs.ID == id })
	if i < 0 {
		return core.CryptoSummary{}, records.ErrNotFound
	}
	cs := s.items[i]
	if err := apply(&cs); err != nil {
		return core.CryptoSummary{}, err
	}
	cs.ID = id
	s.items[i] = cs
	return cs, nil
}

func (s *Summaries) List(_ context.Context) ([]core.CryptoSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}
