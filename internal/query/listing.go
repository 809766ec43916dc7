package query

import (
	"context"
	"fmt"

	"networth/internal/core"
	"networth/internal/records"
)

func listViews[T, D any](ctx context.Context, c core.Category, table records.SnapshotTable[T], limit int, derive func(T) D) ([]core.View[T, D], error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := table.List(ctx, records.Query{Order: records.Descending, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c, err)
	}
	out := make([]core.View[T, D], len(rows))
	for i, r := range rows {
		out[i] = core.NewView(r, derive)
	}
	return out, nil
}

func (e *Engine) ListCurrentAccounts(ctx context.Context, limit int) ([]CurrentAccountsView, error) {
	return listViews(ctx, core.CategoryCurrent, e.store.Current, limit, core.CurrentAccounts.Derive)
}

func (e *Engine) ListCashAccounts(ctx context.Context, limit int) ([]CashAccountsView, error) {
	return listViews(ctx, core.CategoryCash, e.store.Cash, limit, core.CashAccounts.Derive)
}

func (e *Engine) ListUkAccounts(ctx context.Context, limit int) ([]UkAccountsView, error) {
	return listViews(ctx, core.CategoryUk, e.store.Uk, limit, core.UkAccounts.Derive)
}

func (e *Engine) ListSuperAccounts(ctx context.Context, limit int) ([]SuperAccountsView, error) {
	return listViews(ctx, core.CategorySuper, e.store.Super, limit, core.SuperAccounts.Derive)
}

func (e *Engine) ListInvestmentAccounts(ctx context.Context, limit int) ([]InvestmentAccountsView, error) {
	return listViews(ctx, core.CategoryInvestments, e.store.Investments, limit, core.InvestmentAccounts.Derive)
}

func (e *Engine) ListMortgage(ctx context.Context, limit int) ([]MortgageView, error) {
	return listViews(ctx, core.CategoryMortgage, e.store.Mortgage, limit, core.Mortgage.Derive)
}

func (e *Engine) ListBudget(ctx context.Context, limit int) ([]BudgetView, error) {
	return listViews(ctx, core.CategoryBudget, e.store.Budget, limit, core.Budget.Derive)
}

// CurrentAccountByDate returns nil when no snapshot exists for date.
func (e *Engine) CurrentAccountByDate(ctx context.Context, date core.Date) (*CurrentAccountsView, error) {
	s, ok, err := e.store.Current.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s on %s: %w", core.CategoryCurrent, date, err)
	}
	if !ok {
		return nil, nil
	}
	v := core.NewView(s, core.CurrentAccounts.Derive)
	return &v, nil
}

// ListCryptoTransactions lists the ledger for platform, or all of it when
// platform is empty.
func (e *Engine) ListCryptoTransactions(ctx context.Context, platform core.Platform) ([]core.CryptoTransaction, error) {
	if platform != "" && !platform.IsValid() {
		return nil, core.ErrInvalidPlatform
	}
	txs, err := e.store.CryptoTransactions.List(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", core.CategoryCryptoTransactions, err)
	}
	return txs, nil
}

func (e *Engine) ListCryptoSummaries(ctx context.Context) ([]core.CryptoSummaryView, error) {
	rows, err := e.store.CryptoSummaries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", core.CategoryCryptoSummaries, err)
	}
	out := make([]core.CryptoSummaryView, len(rows))
	for i, r := range rows {
		out[i] = r.View()
	}
	return out, nil
}
