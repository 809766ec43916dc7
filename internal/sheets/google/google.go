package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"networth/internal/core"
	ports "networth/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultTotalsSheet is used when no sheet name is configured.
const DefaultTotalsSheet = "Totals"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	totalsSheet   string
}

// Ensure interface conformance
var _ ports.TotalsExporter = (*Client)(nil)

// Options selects the spreadsheet and credentials. Exactly one of
// CredentialsJSON and CredentialsFile is needed.
type Options struct {
	SpreadsheetID   string
	TotalsSheet     string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(opts.TotalsSheet)
	if sheet == "" {
		sheet = DefaultTotalsSheet
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, totalsSheet: sheet}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when opts names none.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(opts.CredentialsJSON))
	file := strings.TrimSpace(opts.CredentialsFile)
	if len(credentialsJSON) == 0 && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case len(credentialsJSON) > 0:
		slog.InfoContext(ctx, "Using inline JSON credentials")
	case file != "":
		var err error
		credentialsJSON, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read credentials from file", "path", file, "size", len(credentialsJSON))
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ExportHistory overwrites the totals sheet with a header and one row per
// history point.
func (c *Client) ExportHistory(ctx context.Context, rows []core.DatedTotals) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:I", c.totalsSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	values := historyValues(rows)
	writeRange := fmt.Sprintf("%s!A1:I%d", c.totalsSheet, len(values))
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", writeRange, err)
	}

	slog.InfoContext(ctx, "Exported totals history",
		"sheets_ref", writeRange,
		"count", len(rows))
	return nil
}

// historyValues lays rows out under HistoryHeader. Amounts are written as
// two-decimal strings so that USER_ENTERED parses them as numbers.
func historyValues(rows []core.DatedTotals) [][]any {
	out := make([][]any, 0, len(rows)+1)
	header := make([]any, len(ports.HistoryHeader))
	for i, h := range ports.HistoryHeader {
		header[i] = h
	}
	out = append(out, header)

	for _, r := range rows {
		out = append(out, []any{
			r.Date.String(),
			r.Super.StringFixed(2),
			r.Uk.StringFixed(2),
			r.Investments.StringFixed(2),
			r.HouseEquity.StringFixed(2),
			r.Cash.StringFixed(2),
			r.Current.StringFixed(2),
			r.Total.StringFixed(2),
			r.Liquid.StringFixed(2),
		})
	}
	return out
}
