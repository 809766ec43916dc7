package query

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/core"
	"networth/internal/records"
	"networth/internal/records/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const (
	day1  = core.Date(1 * 86400000)
	day5  = core.Date(5 * 86400000)
	day10 = core.Date(10 * 86400000)
)

// seedExample inserts the six categories of the worked example at date.
func seedExample(t *testing.T, store *records.Store, date core.Date) {
	t.Helper()
	ctx := context.Background()
	_, err := store.Current.Insert(ctx, date, core.CurrentAccounts{CurrentSecondary: dec("10"), Shared: dec("5"), CurrentPrimary: dec("5")})
	require.NoError(t, err)
	_, err = store.Cash.Insert(ctx, date, core.CashAccounts{Saver: dec("100"), HighInterest: dec("50")})
	require.NoError(t, err)
	_, err = store.Uk.Insert(ctx, date, core.UkAccounts{SharesIsaGbp: dec("100"), GbpAud: dec("2")})
	require.NoError(t, err)
	_, err = store.Super.Insert(ctx, date, core.SuperAccounts{GbpAud: dec("2")})
	require.NoError(t, err)
	_, err = store.Investments.Insert(ctx, date, core.InvestmentAccounts{})
	require.NoError(t, err)
	_, err = store.Mortgage.Insert(ctx, date, core.Mortgage{Price: dec("500"), Debt1: dec("200")})
	require.NoError(t, err)
}

func TestLatestTotalsEndToEnd(t *testing.T) {
	store := memory.NewStore()
	seedExample(t, store, day1)

	got, err := NewEngine(store).LatestTotals(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, dec("670").Equal(got.Total), "total %s", got.Total)
	assert.True(t, dec("370").Equal(got.Liquid), "liquid %s", got.Liquid)
	assert.True(t, dec("300").Equal(got.HouseEquity))
	assert.True(t, dec("200").Equal(got.Uk))
}

func TestLatestTotalsUsesMostRecentSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedExample(t, store, day1)
	_, err := store.Cash.Insert(ctx, day10, core.CashAccounts{Saver: dec("1000")})
	require.NoError(t, err)

	got, err := NewEngine(store).LatestTotals(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, dec("1000").Equal(got.Cash))
	assert.True(t, dec("1520").Equal(got.Total), "total %s", got.Total)
}

func TestMissingCategoryYieldsNoData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedExample(t, store, day1)
	rows, err := store.Mortgage.List(ctx, records.Query{})
	require.NoError(t, err)
	require.NoError(t, store.Mortgage.Delete(ctx, rows[0].ID))
	// plenty of data in the other five
	_, err = store.Cash.Insert(ctx, day5, core.CashAccounts{Saver: dec("1")})
	require.NoError(t, err)

	engine := NewEngine(store)
	latest, err := engine.LatestTotals(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	history, err := engine.TotalsHistory(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestEmptyStoreYieldsNoData(t *testing.T) {
	engine := NewEngine(memory.NewStore())
	latest, err := engine.LatestTotals(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestTotalsHistoryCarriesForward(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedExample(t, store, day1)
	// category A: cash gets a second snapshot on day 10
	_, err := store.Cash.Insert(ctx, day10, core.CashAccounts{Saver: dec("400")})
	require.NoError(t, err)

	history, err := NewEngine(store).TotalsHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, day10, history[0].Date)
	assert.True(t, dec("400").Equal(history[0].Cash))
	// other five carried from day 1: 0 + 200 + 0 + 300 + 400 + 20
	assert.True(t, dec("920").Equal(history[0].Total), "day 10 total %s", history[0].Total)
	assert.True(t, dec("20").Equal(history[0].Current))

	assert.Equal(t, day1, history[1].Date)
	assert.True(t, dec("150").Equal(history[1].Cash))
	assert.True(t, dec("670").Equal(history[1].Total))
}

func TestTotalsHistoryStartsWhenAllCategoriesPresent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	// cash alone on day 1, everything else on day 5
	_, err := store.Cash.Insert(ctx, day1, core.CashAccounts{Saver: dec("1")})
	require.NoError(t, err)
	seedExample(t, store, day5)

	history, err := NewEngine(store).TotalsHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, day5, history[0].Date)
}

func TestTotalsHistoryDescendingAndLimited(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedExample(t, store, day1)
	for i := int64(2); i <= 12; i++ {
		_, err := store.Current.Insert(ctx, core.Date(i*86400000), core.CurrentAccounts{Other: decimal.NewFromInt(i)})
		require.NoError(t, err)
	}

	engine := NewEngine(store)
	all, err := engine.TotalsHistory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	limited, err := engine.TotalsHistory(ctx, 5)
	require.NoError(t, err)
	require.Len(t, limited, 5)
	for i := 1; i < len(limited); i++ {
		assert.Greater(t, limited[i-1].Date, limited[i].Date)
	}
	assert.Equal(t, all[:5], limited)
}

func TestTotalsHistorySameDateLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedExample(t, store, day1)
	_, err := store.Cash.Insert(ctx, day1, core.CashAccounts{Saver: dec("7")})
	require.NoError(t, err)

	history, err := NewEngine(store).TotalsHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, dec("7").Equal(history[0].Cash))
}

type failingTable[T any] struct {
	records.SnapshotTable[T]
	err error
}

func (f failingTable[T]) List(context.Context, records.Query) ([]core.Snapshot[T], error) {
	return nil, f.err
}

func TestStoreFailurePropagates(t *testing.T) {
	store := memory.NewStore()
	seedExample(t, store, day1)
	boom := errors.New("disk on fire")
	store.Mortgage = failingTable[core.Mortgage]{SnapshotTable: store.Mortgage, err: boom}

	engine := NewEngine(store)
	_, err := engine.LatestTotals(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = engine.TotalsHistory(context.Background(), 10)
	require.ErrorIs(t, err, boom)
}
