// Package query is the read side: per-category listings with derived fields,
// the latest totals and the carried-forward totals history.
package query

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"networth/internal/core"
	"networth/internal/records"
	"networth/internal/timeline"
)

// DefaultListLimit applies when a listing is requested without a limit.
const DefaultListLimit = 100

type (
	CurrentAccountsView    = core.View[core.CurrentAccounts, core.CurrentAccountsDerived]
	CashAccountsView       = core.View[core.CashAccounts, core.CashAccountsDerived]
	UkAccountsView         = core.View[core.UkAccounts, core.UkAccountsDerived]
	SuperAccountsView      = core.View[core.SuperAccounts, core.SuperAccountsDerived]
	InvestmentAccountsView = core.View[core.InvestmentAccounts, core.InvestmentAccountsDerived]
	MortgageView           = core.View[core.Mortgage, core.MortgageDerived]
	BudgetView             = core.View[core.Budget, core.BudgetDerived]
)

// Engine reads from an explicit store handle and keeps no state between calls.
type Engine struct {
	store *records.Store
}

func NewEngine(store *records.Store) *Engine {
	return &Engine{store: store}
}

// streams holds one fetched sequence per net worth category.
type streams struct {
	super       []core.Snapshot[core.SuperAccounts]
	uk          []core.Snapshot[core.UkAccounts]
	investments []core.Snapshot[core.InvestmentAccounts]
	mortgage    []core.Snapshot[core.Mortgage]
	cash        []core.Snapshot[core.CashAccounts]
	current     []core.Snapshot[core.CurrentAccounts]
}

// load fetches the six categories concurrently. The first failure cancels
// the rest and fails the whole load.
func (e *Engine) load(ctx context.Context, q records.Query) (streams, error) {
	var s streams
	g, gctx := errgroup.WithContext(ctx)
	collect(gctx, g, core.CategorySuper, e.store.Super, q, &s.super)
	collect(gctx, g, core.CategoryUk, e.store.Uk, q, &s.uk)
	collect(gctx, g, core.CategoryInvestments, e.store.Investments, q, &s.investments)
	collect(gctx, g, core.CategoryMortgage, e.store.Mortgage, q, &s.mortgage)
	collect(gctx, g, core.CategoryCash, e.store.Cash, q, &s.cash)
	collect(gctx, g, core.CategoryCurrent, e.store.Current, q, &s.current)
	if err := g.Wait(); err != nil {
		return streams{}, err
	}
	return s, nil
}

func collect[T any](ctx context.Context, g *errgroup.Group, c core.Category, table records.SnapshotTable[T], q records.Query, dst *[]core.Snapshot[T]) {
	g.Go(func() error {
		rows, err := table.List(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", c, err)
		}
		*dst = rows
		return nil
	})
}

// LatestTotals returns nil without error until every category has a snapshot.
func (e *Engine) LatestTotals(ctx context.Context) (*core.TotalsResult, error) {
	s, err := e.load(ctx, records.Query{Order: records.Descending, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(s.super) == 0 || len(s.uk) == 0 || len(s.investments) == 0 ||
		len(s.mortgage) == 0 || len(s.cash) == 0 || len(s.current) == 0 {
		return nil, nil
	}
	r := core.ComputeTotals(core.TotalsInput{
		Super:       s.super[0].Raw,
		Uk:          s.uk[0].Raw,
		Investments: s.investments[0].Raw,
		Mortgage:    s.mortgage[0].Raw,
		Cash:        s.cash[0].Raw,
		Current:     s.current[0].Raw,
	})
	return &r, nil
}

// TotalsHistory returns one record per event date, most recent first.
// Records start once every category has a snapshot; each category carries
// its last known snapshot forward. limit <= 0 returns the full history.
func (e *Engine) TotalsHistory(ctx context.Context, limit int) ([]core.DatedTotals, error) {
	s, err := e.load(ctx, records.Query{Order: records.Ascending})
	if err != nil {
		return nil, err
	}

	frames, err := timeline.Merge(
		stream(core.CategorySuper, s.super),
		stream(core.CategoryUk, s.uk),
		stream(core.CategoryInvestments, s.investments),
		stream(core.CategoryMortgage, s.mortgage),
		stream(core.CategoryCash, s.cash),
		stream(core.CategoryCurrent, s.current),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to merge category streams: %w", err)
	}

	frames = timeline.Complete(frames)
	out := make([]core.DatedTotals, 0, len(frames))
	for _, f := range frames {
		out = append(out, core.DatedTotals{
			Date: f.At,
			TotalsResult: core.ComputeTotals(core.TotalsInput{
				Super:       s.super[f.Pos[0]].Raw,
				Uk:          s.uk[f.Pos[1]].Raw,
				Investments: s.investments[f.Pos[2]].Raw,
				Mortgage:    s.mortgage[f.Pos[3]].Raw,
				Cash:        s.cash[f.Pos[4]].Raw,
				Current:     s.current[f.Pos[5]].Raw,
			}),
		})
	}
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func stream[T any](c core.Category, rows []core.Snapshot[T]) timeline.Stream[core.Date] {
	return timeline.Stream[core.Date]{
		Label: string(c),
		Keys:  timeline.Keys(rows, func(s core.Snapshot[T]) core.Date { return s.Date }),
	}
}
