package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/core"
	"networth/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "networth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networth.db")
	v1, err := RunMigrations(path)
	require.NoError(t, err)
	v2, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v1)
	assert.Equal(t, v1, v2)
}

func TestSnapshotTableRoundTripsExactDecimals(t *testing.T) {
	ctx := context.Background()
	store := newTestRepo(t).Store()

	raw := core.UkAccounts{CurrentGbp: dec("0.1"), SaverGbp: dec("0.2"), SharesIsaGbp: dec("12345.6789"), GbpAud: dec("1.93")}
	s, err := store.Uk.Insert(ctx, core.NewDate(2024, 3, 1), raw)
	require.NoError(t, err)
	assert.NotZero(t, s.ID)

	got, ok, err := store.Uk.FindByDate(ctx, core.NewDate(2024, 3, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)
	assert.True(t, dec("0.3").Equal(got.Raw.CurrentGbp.Add(got.Raw.SaverGbp)))
	assert.True(t, dec("12345.6789").Equal(got.Raw.SharesIsaGbp))
	assert.True(t, dec("1.93").Equal(got.Raw.GbpAud))
}

func TestSnapshotTableRejectsDuplicateDate(t *testing.T) {
	ctx := context.Background()
	store := newTestRepo(t).Store()
	day := core.NewDate(2024, 1, 31)

	_, err := store.Cash.Insert(ctx, day, core.CashAccounts{Saver: dec("1")})
	require.NoError(t, err)
	_, err = store.Cash.Insert(ctx, day, core.CashAccounts{Saver: dec("2")})
	require.ErrorIs(t, err, records.ErrDuplicateDate)
}

func TestSnapshotTableListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestRepo(t).Store()
	for _, d := range []int{3, 1, 2} {
		_, err := store.Current.Insert(ctx, core.NewDate(2024, 1, d), core.CurrentAccounts{Other: decimal.NewFromInt(int64(d))})
		require.NoError(t, err)
	}

	asc, err := store.Current.List(ctx, records.Query{Order: records.Ascending})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, core.NewDate(2024, 1, 1), asc[0].Date)
	assert.Equal(t, core.NewDate(2024, 1, 3), asc[2].Date)

	desc, err := store.Current.List(ctx, records.Query{Order: records.Descending, Limit: 1})
	require.NoError(t, err)
	require.Len(t, desc, 1)
	assert.Equal(t, int64(3), desc[0].Raw.Other.IntPart())
}

func TestSnapshotTablePatchAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestRepo(t).Store()
	s, err := store.Budget.Insert(ctx, core.NewDate(2024, 2, 1), core.Budget{IncomePrimary: dec("5000")})
	require.NoError(t, err)

	rate := dec("6.24")
	got, err := store.Budget.Patch(ctx, s.ID, func(b *core.Budget) error {
		core.BudgetPatch{RateVar: &rate, Rent: &rate}.Apply(b)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, dec("5000").Equal(got.Raw.IncomePrimary))

	reloaded, ok, err := store.Budget.FindByDate(ctx, core.NewDate(2024, 2, 1))
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, reloaded.Raw.RateVar)
	assert.True(t, rate.Equal(*reloaded.Raw.RateVar))
	assert.Nil(t, reloaded.Raw.RateFix)
	assert.True(t, rate.Equal(reloaded.Raw.Rent))

	_, err = store.Budget.Patch(ctx, 9999, func(*core.Budget) error { return nil })
	require.ErrorIs(t, err, records.ErrNotFound)

	require.NoError(t, store.Budget.Delete(ctx, s.ID))
	require.ErrorIs(t, store.Budget.Delete(ctx, s.ID), records.ErrNotFound)
}

func TestCryptoTables(t *testing.T) {
	ctx := context.Background()
	store := newTestRepo(t).Store()
	day := core.NewDate(2024, 5, 5)

	_, err := store.CryptoTransactions.Insert(ctx, core.CryptoTransaction{Platform: core.PlatformA, Date: &day, Type: core.TxDeposit, Amount: dec("100.5")})
	require.NoError(t, err)
	_, err = store.CryptoTransactions.Insert(ctx, core.CryptoTransaction{Platform: core.PlatformA, Type: core.TxWithdrawal, Amount: dec("20")})
	require.NoError(t, err)
	b, err := store.CryptoTransactions.Insert(ctx, core.CryptoTransaction{Platform: core.PlatformB, Type: core.TxDeposit, Amount: dec("1")})
	require.NoError(t, err)

	all, err := store.CryptoTransactions.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := store.CryptoTransactions.List(ctx, core.PlatformA)
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	require.NotNil(t, onlyA[0].Date)
	assert.Equal(t, day, *onlyA[0].Date)
	assert.Nil(t, onlyA[1].Date)

	on, err := store.CryptoTransactions.ListOn(ctx, core.PlatformA, day)
	require.NoError(t, err)
	require.Len(t, on, 1)
	assert.True(t, dec("100.5").Equal(on[0].Amount))

	require.NoError(t, store.CryptoTransactions.Delete(ctx, b.ID))
	require.ErrorIs(t, store.CryptoTransactions.Delete(ctx, b.ID), records.ErrNotFound)

	cs, err := store.CryptoSummaries.Insert(ctx, core.CryptoSummary{Platform: core.PlatformB, TotalDeposited: dec("10")})
	require.NoError(t, err)
	value := dec("42")
	_, err = store.CryptoSummaries.Patch(ctx, cs.ID, func(s *core.CryptoSummary) error {
		core.CryptoSummaryPatch{CurrentValue: &value}.Apply(s)
		return nil
	})
	require.NoError(t, err)

	summaries, err := store.CryptoSummaries.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, dec("42").Equal(summaries[0].CurrentValue))
	assert.True(t, dec("32").Equal(summaries[0].Net()))
}
