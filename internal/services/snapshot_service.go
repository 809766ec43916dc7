package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/records"
)

// SnapshotService orchestrates writes across the record store and the event
// publisher.
type SnapshotService struct {
	Current     *CategoryService[core.CurrentAccounts, core.CurrentAccountsPatch]
	Cash        *CategoryService[core.CashAccounts, core.CashAccountsPatch]
	Uk          *CategoryService[core.UkAccounts, core.UkAccountsPatch]
	Super       *CategoryService[core.SuperAccounts, core.SuperAccountsPatch]
	Investments *CategoryService[core.InvestmentAccounts, core.InvestmentAccountsPatch]
	Mortgage    *CategoryService[core.Mortgage, core.MortgagePatch]
	Budget      *CategoryService[core.Budget, core.BudgetPatch]

	store     *records.Store
	publisher EventPublisher
	notifier  notifier
	logger    *log.Logger
	writeMu   sync.Mutex
}

// NewSnapshotService wires a service over store. publisher may be nil.
func NewSnapshotService(store *records.Store, publisher EventPublisher, logger *log.Logger) *SnapshotService {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithComponent(log.ComponentMutation)

	s := &SnapshotService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
	s.notifier = notifier{publisher: publisher, logger: logger}
	mu := &s.writeMu

	s.Current = newCategoryService[core.CurrentAccounts, core.CurrentAccountsPatch](core.CategoryCurrent, store.Current, s.notifier, mu)
	s.Cash = newCategoryService[core.CashAccounts, core.CashAccountsPatch](core.CategoryCash, store.Cash, s.notifier, mu)
	s.Uk = newCategoryService[core.UkAccounts, core.UkAccountsPatch](core.CategoryUk, store.Uk, s.notifier, mu)
	s.Super = newCategoryService[core.SuperAccounts, core.SuperAccountsPatch](core.CategorySuper, store.Super, s.notifier, mu)
	s.Investments = newCategoryService[core.InvestmentAccounts, core.InvestmentAccountsPatch](core.CategoryInvestments, store.Investments, s.notifier, mu)
	s.Mortgage = newCategoryService[core.Mortgage, core.MortgagePatch](core.CategoryMortgage, store.Mortgage, s.notifier, mu)
	s.Budget = newCategoryService[core.Budget, core.BudgetPatch](core.CategoryBudget, store.Budget, s.notifier, mu)
	return s
}

// UpdateExchangeRates writes gbpAud into the uk and super rows and usdAud
// into the investments row stored at exactly date. Tables without a row at
// date are skipped. The updated categories are returned in that order.
func (s *SnapshotService) UpdateExchangeRates(ctx context.Context, date core.Date, gbpAud, usdAud *decimal.Decimal) ([]core.Category, error) {
	if gbpAud == nil && usdAud == nil {
		return nil, ErrEmptyPatch
	}
	if err := date.Validate(); err != nil {
		return nil, err
	}
	for _, rate := range []*decimal.Decimal{gbpAud, usdAud} {
		if rate != nil && rate.IsNegative() {
			return nil, core.ErrNegativeRate
		}
	}

	s.writeMu.Lock()
	updated, err := s.updateRatesLocked(ctx, date, gbpAud, usdAud)
	s.writeMu.Unlock()

	for _, c := range updated {
		s.notifier.notify(ctx, c, amqp.OpRatesUpdated, 0, &date)
	}
	return updated, err
}

func (s *SnapshotService) updateRatesLocked(ctx context.Context, date core.Date, gbpAud, usdAud *decimal.Decimal) ([]core.Category, error) {
	updated := []core.Category{}
	record := func(c core.Category, ok bool, err error) error {
		if ok {
			updated = append(updated, c)
		}
		return err
	}

	if gbpAud != nil {
		ok, err := s.Uk.patchAt(ctx, date, core.UkAccountsPatch{GbpAud: gbpAud})
		if err := record(core.CategoryUk, ok, err); err != nil {
			return updated, err
		}
		ok, err = s.Super.patchAt(ctx, date, core.SuperAccountsPatch{GbpAud: gbpAud})
		if err := record(core.CategorySuper, ok, err); err != nil {
			return updated, err
		}
	}
	if usdAud != nil {
		ok, err := s.Investments.patchAt(ctx, date, core.InvestmentAccountsPatch{UsdAud: usdAud})
		if err := record(core.CategoryInvestments, ok, err); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// SnapshotRow is one spreadsheet-style row: a date plus any subset of the
// seven snapshot tables.
type SnapshotRow struct {
	Date        core.Date                `json:"date"`
	Current     *core.CurrentAccounts    `json:"currentAccounts,omitempty"`
	Cash        *core.CashAccounts       `json:"cashAccounts,omitempty"`
	Uk          *core.UkAccounts         `json:"ukAccounts,omitempty"`
	Super       *core.SuperAccounts      `json:"superAccounts,omitempty"`
	Investments *core.InvestmentAccounts `json:"investmentAccounts,omitempty"`
	Mortgage    *core.Mortgage           `json:"mortgage,omitempty"`
	Budget      *core.Budget             `json:"budget,omitempty"`
}

type AddSnapshotResult struct {
	Date     core.Date       `json:"date"`
	Inserted []core.Category `json:"inserted"`
}

// rowWriter is one table's share of a multi-table write.
type rowWriter struct {
	category core.Category
	validate func() error
	check    func(ctx context.Context) error
	insert   func(ctx context.Context) (int64, error)
}

func writerFor[T core.Raw, P core.Patch[T]](svc *CategoryService[T, P], date core.Date, raw *T) *rowWriter {
	if raw == nil {
		return nil
	}
	return &rowWriter{
		category: svc.category,
		validate: func() error { return (*raw).Validate() },
		check:    func(ctx context.Context) error { return svc.checkFree(ctx, date) },
		insert: func(ctx context.Context) (int64, error) {
			snap, err := svc.table.Insert(ctx, date, *raw)
			if err != nil {
				return 0, fmt.Errorf("insert %s: %w", svc.category, err)
			}
			return snap.ID, nil
		},
	}
}

func (s *SnapshotService) writers(row SnapshotRow) []*rowWriter {
	all := []*rowWriter{
		writerFor(s.Current, row.Date, row.Current),
		writerFor(s.Cash, row.Date, row.Cash),
		writerFor(s.Uk, row.Date, row.Uk),
		writerFor(s.Super, row.Date, row.Super),
		writerFor(s.Investments, row.Date, row.Investments),
		writerFor(s.Mortgage, row.Date, row.Mortgage),
		writerFor(s.Budget, row.Date, row.Budget),
	}
	out := make([]*rowWriter, 0, len(all))
	for _, w := range all {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

// AddSnapshot inserts every table present in row at row.Date. Every
// supplied table is validated and checked for an existing snapshot on that
// date before anything is written.
func (s *SnapshotService) AddSnapshot(ctx context.Context, row SnapshotRow) (AddSnapshotResult, error) {
	if err := row.Date.Validate(); err != nil {
		return AddSnapshotResult{}, err
	}
	ws := s.writers(row)
	if len(ws) == 0 {
		return AddSnapshotResult{}, ErrEmptyPatch
	}
	for _, w := range ws {
		if err := w.validate(); err != nil {
			return AddSnapshotResult{}, fmt.Errorf("%s: %w", w.category, err)
		}
	}

	s.writeMu.Lock()
	res, ids, err := s.addSnapshotLocked(ctx, row.Date, ws)
	s.writeMu.Unlock()

	for i, c := range res.Inserted {
		s.notifier.notify(ctx, c, amqp.OpSnapshotAdded, ids[i], &row.Date)
	}
	return res, err
}

func (s *SnapshotService) addSnapshotLocked(ctx context.Context, date core.Date, ws []*rowWriter) (AddSnapshotResult, []int64, error) {
	res := AddSnapshotResult{Date: date, Inserted: []core.Category{}}
	for _, w := range ws {
		if err := w.check(ctx); err != nil {
			return res, nil, err
		}
	}
	ids := make([]int64, 0, len(ws))
	for _, w := range ws {
		id, err := w.insert(ctx)
		if err != nil {
			return res, ids, err
		}
		res.Inserted = append(res.Inserted, w.category)
		ids = append(ids, id)
	}
	return res, ids, nil
}

func (s *SnapshotService) AddCryptoTransaction(ctx context.Context, tx core.CryptoTransaction) (core.CryptoTransaction, error) {
	if err := tx.Validate(); err != nil {
		return core.CryptoTransaction{}, err
	}
	saved, err := s.store.CryptoTransactions.Insert(ctx, tx)
	if err != nil {
		return core.CryptoTransaction{}, fmt.Errorf("insert crypto transaction: %w", err)
	}
	s.notifier.notify(ctx, core.CategoryCryptoTransactions, amqp.OpCreated, saved.ID, saved.Date)
	return saved, nil
}

func (s *SnapshotService) DeleteCryptoTransaction(ctx context.Context, id int64) error {
	if err := s.store.CryptoTransactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete crypto transaction %d: %w", id, err)
	}
	s.notifier.notify(ctx, core.CategoryCryptoTransactions, amqp.OpDeleted, id, nil)
	return nil
}

func (s *SnapshotService) AddCryptoSummary(ctx context.Context, cs core.CryptoSummary) (core.CryptoSummary, error) {
	if err := cs.Validate(); err != nil {
		return core.CryptoSummary{}, err
	}
	saved, err := s.store.CryptoSummaries.Insert(ctx, cs)
	if err != nil {
		return core.CryptoSummary{}, fmt.Errorf("insert crypto summary: %w", err)
	}
	s.notifier.notify(ctx, core.CategoryCryptoSummaries, amqp.OpCreated, saved.ID, nil)
	return saved, nil
}

func (s *SnapshotService) UpdateCryptoSummary(ctx context.Context, id int64, patch core.CryptoSummaryPatch) (core.CryptoSummary, error) {
	if patch.IsEmpty() {
		return core.CryptoSummary{}, ErrEmptyPatch
	}
	saved, err := s.store.CryptoSummaries.Patch(ctx, id, func(cs *core.CryptoSummary) error {
		patch.Apply(cs)
		return cs.Validate()
	})
	if err != nil {
		return core.CryptoSummary{}, fmt.Errorf("update crypto summary %d: %w", id, err)
	}
	s.notifier.notify(ctx, core.CategoryCryptoSummaries, amqp.OpUpdated, id, nil)
	return saved, nil
}

// Close releases the event publisher when it holds a connection.
func (s *SnapshotService) Close() error {
	closer, ok := s.publisher.(interface{ Close() error })
	if !ok || closer == nil {
		return nil
	}
	if err := closer.Close(); err != nil {
		return fmt.Errorf("close event publisher: %w", err)
	}
	return nil
}
