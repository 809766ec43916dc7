package google

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"networth/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{CredentialsJSON: "{}"})
	require.Error(t, err)
	assert.Equal(t, "missing spreadsheet id", err.Error())
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Options{SpreadsheetID: "sheet-id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{
		SpreadsheetID:   "sheet-id",
		CredentialsFile: "/nonexistent/credentials.json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read service account file")
}

func TestExportHistory_NoService(t *testing.T) {
	c := &Client{spreadsheetID: "test", totalsSheet: DefaultTotalsSheet}
	err := c.ExportHistory(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestHistoryValues(t *testing.T) {
	rows := []core.DatedTotals{
		{
			Date: core.NewDate(2024, 3, 1),
			TotalsResult: core.TotalsResult{
				Super:       decimal.RequireFromString("100"),
				Uk:          decimal.RequireFromString("250.5"),
				Investments: decimal.RequireFromString("0"),
				HouseEquity: decimal.RequireFromString("-10.125"),
				Cash:        decimal.RequireFromString("1"),
				Current:     decimal.RequireFromString("2"),
				Total:       decimal.RequireFromString("343.375"),
				Liquid:      decimal.RequireFromString("253.5"),
			},
		},
	}

	values := historyValues(rows)
	require.Len(t, values, 2)
	assert.Equal(t, []any{"Date", "Super", "UK", "Investments", "House Equity", "Cash", "Current", "Total", "Liquid"}, values[0])
	assert.Equal(t, []any{"2024-03-01", "100.00", "250.50", "0.00", "-10.13", "1.00", "2.00", "343.38", "253.50"}, values[1])
}

func TestHistoryValues_Empty(t *testing.T) {
	values := historyValues(nil)
	require.Len(t, values, 1)
	assert.Len(t, values[0], 9)
}
