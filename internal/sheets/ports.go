package sheets

import (
	"context"

	"networth/internal/core"
)

// Ports for outbound adapters.
type (
	// TotalsExporter replaces the exported totals history with rows, newest
	// first.
	TotalsExporter interface {
		ExportHistory(ctx context.Context, rows []core.DatedTotals) error
	}
)

// HistoryHeader is the first row of an exported totals sheet.
var HistoryHeader = []string{"Date", "Super", "UK", "Investments", "House Equity", "Cash", "Current", "Total", "Liquid"}
