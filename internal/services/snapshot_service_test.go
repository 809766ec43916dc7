package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/records"
	"networth/internal/records/memory"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.SnapshotChangedMessage
	err  error
}

func (p *recordingPublisher) PublishSnapshotChanged(_ context.Context, msg *amqp.SnapshotChangedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) operations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, string(m.Category)+":"+string(m.Operation))
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var (
	jan1 = core.NewDate(2024, 1, 1)
	feb1 = core.NewDate(2024, 2, 1)
)

func newService(t *testing.T) (*SnapshotService, *records.Store, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	return NewSnapshotService(store, pub, nil), store, pub
}

func TestCategoryServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)

	snap, err := svc.Cash.Create(ctx, jan1, core.CashAccounts{Saver: dec("100"), HighInterest: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, jan1, snap.Date)
	assert.NotZero(t, snap.ID)

	rows, err := store.Cash.List(ctx, records.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"cashAccounts:created"}, pub.operations())

	t.Run("duplicate date", func(t *testing.T) {
		_, err := svc.Cash.Create(ctx, jan1, core.CashAccounts{})
		assert.ErrorIs(t, err, records.ErrDuplicateDate)
	})

	t.Run("zero date", func(t *testing.T) {
		_, err := svc.Cash.Create(ctx, 0, core.CashAccounts{})
		assert.ErrorIs(t, err, core.ErrZeroDate)
	})

	t.Run("negative rate", func(t *testing.T) {
		_, err := svc.Uk.Create(ctx, jan1, core.UkAccounts{GbpAud: dec("-1")})
		assert.ErrorIs(t, err, core.ErrNegativeRate)
	})
}

func TestCategoryServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newService(t)

	snap, err := svc.Current.Create(ctx, jan1, core.CurrentAccounts{Shared: dec("10"), Other: dec("1")})
	require.NoError(t, err)

	updated, err := svc.Current.Update(ctx, snap.ID, core.CurrentAccountsPatch{Shared: ptr("25.5")})
	require.NoError(t, err)
	assert.True(t, dec("25.5").Equal(updated.Raw.Shared))
	assert.True(t, dec("1").Equal(updated.Raw.Other))
	assert.Equal(t, jan1, updated.Date)
	assert.Equal(t, []string{"currentAccounts:created", "currentAccounts:updated"}, pub.operations())

	_, err = svc.Current.Update(ctx, snap.ID, core.CurrentAccountsPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	_, err = svc.Current.Update(ctx, 999, core.CurrentAccountsPatch{Other: ptr("2")})
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestCategoryServiceUpdateRejectsInvalidResult(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	snap, err := svc.Investments.Create(ctx, jan1, core.InvestmentAccounts{UsdAud: dec("1.5")})
	require.NoError(t, err)

	_, err = svc.Investments.Update(ctx, snap.ID, core.InvestmentAccountsPatch{UsdAud: ptr("-2")})
	require.ErrorIs(t, err, core.ErrNegativeRate)

	stored, found, err := store.Investments.FindByDate(ctx, jan1)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, dec("1.5").Equal(stored.Raw.UsdAud))
}

func TestCategoryServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)

	snap, err := svc.Mortgage.Create(ctx, jan1, core.Mortgage{Price: dec("500000")})
	require.NoError(t, err)
	require.NoError(t, svc.Mortgage.Delete(ctx, snap.ID))

	rows, err := store.Mortgage.List(ctx, records.Query{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.ErrorIs(t, svc.Mortgage.Delete(ctx, snap.ID), records.ErrNotFound)
	assert.Equal(t, []string{"mortgage:created", "mortgage:deleted"}, pub.operations())

	// the date is free again once deleted
	_, err = svc.Mortgage.Create(ctx, jan1, core.Mortgage{})
	assert.NoError(t, err)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pub := &recordingPublisher{err: errors.New("broker unavailable")}
	svc := NewSnapshotService(store, pub, nil)

	_, err := svc.Budget.Create(ctx, jan1, core.Budget{IncomePrimary: dec("5000")})
	require.NoError(t, err)
	assert.Len(t, pub.operations(), 1)
}

func TestNilPublisher(t *testing.T) {
	svc := NewSnapshotService(memory.NewStore(), nil, nil)
	_, err := svc.Cash.Create(context.Background(), jan1, core.CashAccounts{})
	require.NoError(t, err)
	assert.NoError(t, svc.Close())
}

func TestUpdateExchangeRates(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)

	_, err := svc.Uk.Create(ctx, jan1, core.UkAccounts{CurrentGbp: dec("100"), GbpAud: dec("1.9")})
	require.NoError(t, err)
	_, err = svc.Investments.Create(ctx, jan1, core.InvestmentAccounts{UsdAud: dec("1.4")})
	require.NoError(t, err)
	_, err = svc.Super.Create(ctx, feb1, core.SuperAccounts{GbpAud: dec("1.9")})
	require.NoError(t, err)

	updated, err := svc.UpdateExchangeRates(ctx, jan1, ptr("2"), ptr("1.5"))
	require.NoError(t, err)
	// super has no row on jan1
	assert.Equal(t, []core.Category{core.CategoryUk, core.CategoryInvestments}, updated)

	uk, _, err := store.Uk.FindByDate(ctx, jan1)
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(uk.Raw.GbpAud))
	assert.True(t, dec("100").Equal(uk.Raw.CurrentGbp))

	inv, _, err := store.Investments.FindByDate(ctx, jan1)
	require.NoError(t, err)
	assert.True(t, dec("1.5").Equal(inv.Raw.UsdAud))

	sup, _, err := store.Super.FindByDate(ctx, feb1)
	require.NoError(t, err)
	assert.True(t, dec("1.9").Equal(sup.Raw.GbpAud))

	assert.Contains(t, pub.operations(), "ukAccounts:rates_updated")
	assert.Contains(t, pub.operations(), "investmentAccounts:rates_updated")

	t.Run("only usd", func(t *testing.T) {
		updated, err := svc.UpdateExchangeRates(ctx, feb1, nil, ptr("1.6"))
		require.NoError(t, err)
		assert.Empty(t, updated)
	})

	t.Run("no rates", func(t *testing.T) {
		_, err := svc.UpdateExchangeRates(ctx, jan1, nil, nil)
		assert.ErrorIs(t, err, ErrEmptyPatch)
	})

	t.Run("negative rate", func(t *testing.T) {
		_, err := svc.UpdateExchangeRates(ctx, jan1, ptr("-1"), nil)
		assert.ErrorIs(t, err, core.ErrNegativeRate)
	})
}

func TestAddSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)

	res, err := svc.AddSnapshot(ctx, SnapshotRow{
		Date:     jan1,
		Current:  &core.CurrentAccounts{Shared: dec("10")},
		Mortgage: &core.Mortgage{Price: dec("1000")},
		Cash:     &core.CashAccounts{Saver: dec("5")},
	})
	require.NoError(t, err)
	assert.Equal(t, jan1, res.Date)
	assert.Equal(t, []core.Category{core.CategoryCurrent, core.CategoryCash, core.CategoryMortgage}, res.Inserted)
	assert.Equal(t, []string{
		"currentAccounts:snapshot_added",
		"cashAccounts:snapshot_added",
		"mortgage:snapshot_added",
	}, pub.operations())

	_, found, err := store.Mortgage.FindByDate(ctx, jan1)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAddSnapshotChecksDuplicatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	_, err := svc.Budget.Create(ctx, jan1, core.Budget{})
	require.NoError(t, err)

	_, err = svc.AddSnapshot(ctx, SnapshotRow{
		Date:    jan1,
		Current: &core.CurrentAccounts{Shared: dec("10")},
		Budget:  &core.Budget{Rent: dec("400")},
	})
	require.ErrorIs(t, err, records.ErrDuplicateDate)

	rows, err := store.Current.List(ctx, records.Query{})
	require.NoError(t, err)
	assert.Empty(t, rows, "no table may be written when any is a duplicate")
}

func TestAddSnapshotValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.AddSnapshot(ctx, SnapshotRow{Date: jan1})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	_, err = svc.AddSnapshot(ctx, SnapshotRow{Cash: &core.CashAccounts{}})
	assert.ErrorIs(t, err, core.ErrZeroDate)

	_, err = svc.AddSnapshot(ctx, SnapshotRow{Date: jan1, Super: &core.SuperAccounts{GbpAud: dec("-1")}})
	assert.ErrorIs(t, err, core.ErrNegativeRate)
}

func TestCryptoOperations(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)

	tx, err := svc.AddCryptoTransaction(ctx, core.CryptoTransaction{
		Platform: core.PlatformA, Type: core.TxDeposit, Amount: dec("100"),
	})
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)

	_, err = svc.AddCryptoTransaction(ctx, core.CryptoTransaction{
		Platform: core.PlatformA, Type: core.TxDeposit, Amount: dec("0"),
	})
	assert.ErrorIs(t, err, core.ErrNonPositiveAmount)

	_, err = svc.AddCryptoTransaction(ctx, core.CryptoTransaction{
		Platform: "elsewhere", Type: core.TxDeposit, Amount: dec("1"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidPlatform)

	require.NoError(t, svc.DeleteCryptoTransaction(ctx, tx.ID))
	assert.ErrorIs(t, svc.DeleteCryptoTransaction(ctx, tx.ID), records.ErrNotFound)

	cs, err := svc.AddCryptoSummary(ctx, core.CryptoSummary{
		Platform: core.PlatformB, TotalDeposited: dec("1000"), CurrentValue: dec("1200"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCryptoSummary(ctx, cs.ID, core.CryptoSummaryPatch{CurrentValue: ptr("900")})
	require.NoError(t, err)
	assert.True(t, dec("-100").Equal(updated.Net()))

	_, err = svc.UpdateCryptoSummary(ctx, cs.ID, core.CryptoSummaryPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	summaries, err := store.CryptoSummaries.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, dec("900").Equal(summaries[0].CurrentValue))

	assert.Equal(t, []string{
		"cryptoTransactions:created",
		"cryptoTransactions:deleted",
		"cryptoSummaries:created",
		"cryptoSummaries:updated",
	}, pub.operations())
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)

	ds, err := DecodeDataset(strings.NewReader(`{
		"currentAccounts": [
			{"date": "2024-01-01", "raw": {"shared": "10"}},
			{"date": "2024-02-01", "raw": {"shared": "20"}}
		],
		"mortgage": [{"date": "2024-01-01", "raw": {"price": "500000", "debt1": "-400000"}}],
		"cryptoTransactions": [{"platform": "platform_a", "type": "deposit", "amount": "50"}]
	}`))
	require.NoError(t, err)

	res, err := svc.Import(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 2, res[core.CategoryCurrent])
	assert.Equal(t, 1, res[core.CategoryMortgage])
	assert.Equal(t, 1, res[core.CategoryCryptoTransactions])
	assert.Equal(t, 4, res.Total())

	rows, err := store.Current.List(ctx, records.Query{Order: records.Descending})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, feb1, rows[0].Date)

	assert.Equal(t, []string{
		"currentAccounts:imported",
		"mortgage:imported",
		"cryptoTransactions:imported",
	}, pub.operations())

	t.Run("rejects dates already stored", func(t *testing.T) {
		_, err := svc.Import(ctx, Dataset{
			CashAccounts:    []DatedRaw[core.CashAccounts]{{Date: jan1}},
			CurrentAccounts: []DatedRaw[core.CurrentAccounts]{{Date: jan1}},
		})
		require.ErrorIs(t, err, records.ErrDuplicateDate)
		cash, err := store.Cash.List(ctx, records.Query{})
		require.NoError(t, err)
		assert.Empty(t, cash)
	})

	t.Run("rejects duplicate dates within the dataset", func(t *testing.T) {
		_, err := svc.Import(ctx, Dataset{
			CashAccounts: []DatedRaw[core.CashAccounts]{{Date: feb1}, {Date: feb1}},
		})
		assert.ErrorIs(t, err, records.ErrDuplicateDate)
	})
}

// flakyCashTable fails every insert after the first ok ones.
type flakyCashTable struct {
	records.SnapshotTable[core.CashAccounts]
	ok int
}

func (f *flakyCashTable) Insert(ctx context.Context, date core.Date, raw core.CashAccounts) (core.Snapshot[core.CashAccounts], error) {
	if f.ok == 0 {
		return core.Snapshot[core.CashAccounts]{}, errors.New("disk full")
	}
	f.ok--
	return f.SnapshotTable.Insert(ctx, date, raw)
}

func TestImportCountsRowsWrittenBeforeFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.Cash = &flakyCashTable{SnapshotTable: store.Cash, ok: 2}
	pub := &recordingPublisher{}
	svc := NewSnapshotService(store, pub, nil)

	res, err := svc.Import(ctx, Dataset{
		CurrentAccounts: []DatedRaw[core.CurrentAccounts]{{Date: jan1}},
		CashAccounts: []DatedRaw[core.CashAccounts]{
			{Date: jan1, Raw: core.CashAccounts{Saver: dec("1")}},
			{Date: feb1, Raw: core.CashAccounts{Saver: dec("2")}},
			{Date: core.NewDate(2024, 3, 1), Raw: core.CashAccounts{Saver: dec("3")}},
		},
		Mortgage: []DatedRaw[core.Mortgage]{{Date: jan1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, 1, res[core.CategoryCurrent])
	assert.Equal(t, 2, res[core.CategoryCash])
	assert.Zero(t, res[core.CategoryMortgage])
	assert.Equal(t, 3, res.Total())

	cash, err := store.Cash.List(ctx, records.Query{})
	require.NoError(t, err)
	assert.Len(t, cash, 2)

	assert.Equal(t, []string{
		"currentAccounts:imported",
		"cashAccounts:imported",
	}, pub.operations())
}
