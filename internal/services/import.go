package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/records"
)

// DatedRaw is one import row for a snapshot table.
type DatedRaw[T any] struct {
	Date core.Date `json:"date"`
	Raw  T         `json:"raw"`
}

// Dataset is a bulk seed of every table, keyed by category name.
type Dataset struct {
	CurrentAccounts    []DatedRaw[core.CurrentAccounts]    `json:"currentAccounts"`
	CashAccounts       []DatedRaw[core.CashAccounts]       `json:"cashAccounts"`
	UkAccounts         []DatedRaw[core.UkAccounts]         `json:"ukAccounts"`
	SuperAccounts      []DatedRaw[core.SuperAccounts]      `json:"superAccounts"`
	InvestmentAccounts []DatedRaw[core.InvestmentAccounts] `json:"investmentAccounts"`
	Mortgage           []DatedRaw[core.Mortgage]           `json:"mortgage"`
	Budget             []DatedRaw[core.Budget]             `json:"budget"`
	CryptoTransactions []core.CryptoTransaction            `json:"cryptoTransactions"`
	CryptoSummaries    []core.CryptoSummary                `json:"cryptoSummaries"`
}

// DecodeDataset reads a JSON dataset.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// ImportResult counts inserted rows per category.
type ImportResult map[core.Category]int

func (r ImportResult) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

type importStep struct {
	category core.Category
	rows     int
	validate func() error
	check    func(ctx context.Context) error
	// insert reports how many rows it wrote, including on failure.
	insert   func(ctx context.Context) (int, error)
}

func importRows[T core.Raw, P core.Patch[T]](svc *CategoryService[T, P], rows []DatedRaw[T]) importStep {
	return importStep{
		category: svc.category,
		rows:     len(rows),
		validate: func() error {
			seen := make(map[core.Date]bool, len(rows))
			for i, r := range rows {
				if err := validateRow(r.Date, r.Raw); err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				if seen[r.Date] {
					return fmt.Errorf("row %d on %s: %w", i, r.Date, records.ErrDuplicateDate)
				}
				seen[r.Date] = true
			}
			return nil
		},
		check: func(ctx context.Context) error {
			for _, r := range rows {
				if err := svc.checkFree(ctx, r.Date); err != nil {
					return err
				}
			}
			return nil
		},
		insert: func(ctx context.Context) (int, error) {
			for i, r := range rows {
				if _, err := svc.table.Insert(ctx, r.Date, r.Raw); err != nil {
					return i, fmt.Errorf("insert %s: %w", svc.category, err)
				}
			}
			return len(rows), nil
		},
	}
}

func (s *SnapshotService) importCrypto(ds Dataset) []importStep {
	return []importStep{
		{
			category: core.CategoryCryptoTransactions,
			rows:     len(ds.CryptoTransactions),
			validate: func() error {
				for i, tx := range ds.CryptoTransactions {
					if err := tx.Validate(); err != nil {
						return fmt.Errorf("row %d: %w", i, err)
					}
				}
				return nil
			},
			check: func(context.Context) error { return nil },
			insert: func(ctx context.Context) (int, error) {
				for i, tx := range ds.CryptoTransactions {
					if _, err := s.store.CryptoTransactions.Insert(ctx, tx); err != nil {
						return i, fmt.Errorf("insert crypto transaction: %w", err)
					}
				}
				return len(ds.CryptoTransactions), nil
			},
		},
		{
			category: core.CategoryCryptoSummaries,
			rows:     len(ds.CryptoSummaries),
			validate: func() error {
				for i, cs := range ds.CryptoSummaries {
					if err := cs.Validate(); err != nil {
						return fmt.Errorf("row %d: %w", i, err)
					}
				}
				return nil
			},
			check: func(context.Context) error { return nil },
			insert: func(ctx context.Context) (int, error) {
				for i, cs := range ds.CryptoSummaries {
					if _, err := s.store.CryptoSummaries.Insert(ctx, cs); err != nil {
						return i, fmt.Errorf("insert crypto summary: %w", err)
					}
				}
				return len(ds.CryptoSummaries), nil
			},
		},
	}
}

// Import bulk-inserts ds. Every row is validated and every snapshot date is
// checked against the store before the first insert. Stored IDs in the
// dataset are ignored.
func (s *SnapshotService) Import(ctx context.Context, ds Dataset) (ImportResult, error) {
	steps := append([]importStep{
		importRows(s.Current, ds.CurrentAccounts),
		importRows(s.Cash, ds.CashAccounts),
		importRows(s.Uk, ds.UkAccounts),
		importRows(s.Super, ds.SuperAccounts),
		importRows(s.Investments, ds.InvestmentAccounts),
		importRows(s.Mortgage, ds.Mortgage),
		importRows(s.Budget, ds.Budget),
	}, s.importCrypto(ds)...)

	for _, st := range steps {
		if st.rows == 0 {
			continue
		}
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", st.category, err)
		}
	}

	s.writeMu.Lock()
	res, err := s.importLocked(ctx, steps)
	s.writeMu.Unlock()

	for _, c := range core.SnapshotCategories {
		if res[c] > 0 {
			s.notifier.notify(ctx, c, amqp.OpImported, 0, nil)
		}
	}
	for _, c := range []core.Category{core.CategoryCryptoTransactions, core.CategoryCryptoSummaries} {
		if res[c] > 0 {
			s.notifier.notify(ctx, c, amqp.OpImported, 0, nil)
		}
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Import stopped",
			log.NewFields().WithError(err, log.ErrorTypeDatabase).WithOperation(log.OpImport).ToSlice()...)
		return res, err
	}
	s.logger.InfoContext(ctx, "Import finished", log.FieldOperation, log.OpImport, log.FieldCount, res.Total())
	return res, nil
}

func (s *SnapshotService) importLocked(ctx context.Context, steps []importStep) (ImportResult, error) {
	res := ImportResult{}
	for _, st := range steps {
		if st.rows == 0 {
			continue
		}
		if err := st.check(ctx); err != nil {
			return res, err
		}
	}
	for _, st := range steps {
		if st.rows == 0 {
			continue
		}
		n, err := st.insert(ctx)
		if n > 0 {
			res[st.category] = n
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
