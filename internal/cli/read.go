package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"networth/internal/core"
	"networth/internal/sheets"
)

func newTotalsCommand(opts *RootOptions, open AppOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show the latest net worth totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, open, func(app *App) error {
				totals, err := app.Queries.LatestTotals(cmd.Context())
				if err != nil {
					return err
				}
				return formatter(cmd, opts).Print(map[string]any{"totals": totals}, func(w io.Writer) error {
					if totals == nil {
						fmt.Fprintln(w, "No totals yet: every net worth category needs at least one snapshot.")
						return nil
					}
					printRow(w, "COMPONENT", "AMOUNT")
					values := totalsColumns(*totals)
					for i, name := range sheets.HistoryHeader[1:] {
						printRow(w, name, FormatAUD(values[i]))
					}
					return nil
				})
			})
		},
	}
}

func newHistoryCommand(opts *RootOptions, open AppOpener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the totals history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, open, func(app *App) error {
				history, err := app.Queries.TotalsHistory(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return formatter(cmd, opts).Print(map[string]any{"history": history}, func(w io.Writer) error {
					header := make([]string, len(sheets.HistoryHeader))
					for i, h := range sheets.HistoryHeader {
						header[i] = strings.ToUpper(h)
					}
					printRow(w, header...)
					for _, h := range history {
						cells := []string{h.Date.String()}
						for _, v := range totalsColumns(h.TotalsResult) {
							cells = append(cells, FormatAUD(v))
						}
						printRow(w, cells...)
					}
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of points (0 for all)")
	return cmd
}

func newListCommand(opts *RootOptions, open AppOpener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list <category>",
		Short: "List one table's records with derived fields, newest first",
		Long: "List one table's records. Categories: " + joinCategories() + ".\n" +
			"--limit applies to snapshot tables only.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := core.Category(args[0])
			if !category.IsValid() {
				return fmt.Errorf("%w %q: must be one of %s", core.ErrInvalidCategory, args[0], joinCategories())
			}
			if limit < 0 {
				return fmt.Errorf("invalid limit %d: must not be negative", limit)
			}
			return withApp(cmd.Context(), opts, open, func(app *App) error {
				items, rows, err := listCategory(cmd.Context(), app, category, limit)
				if err != nil {
					return err
				}
				return formatter(cmd, opts).Print(map[string]any{"items": items}, func(w io.Writer) error {
					printRow(w, "ID", "DATE", "FIELDS")
					for _, r := range rows {
						printRow(w, strconv.FormatInt(r.id, 10), r.date, r.fields)
					}
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records (0 for the default)")
	return cmd
}

func totalsColumns(t core.TotalsResult) []decimal.Decimal {
	return []decimal.Decimal{t.Super, t.Uk, t.Investments, t.HouseEquity, t.Cash, t.Current, t.Total, t.Liquid}
}

// listRow is one text-mode line of a listing.
type listRow struct {
	id     int64
	date   string
	fields string
}

func listCategory(ctx context.Context, app *App, category core.Category, limit int) (any, []listRow, error) {
	q := app.Queries
	switch category {
	case core.CategoryCurrent:
		views, err := q.ListCurrentAccounts(ctx, limit)
		return viewRows(views, err)
	case core.CategoryCash:
		views, err := q.ListCashAccounts(ctx, limit)
		return viewRows(views, err)
	case core.CategoryUk:
		views, err := q.ListUkAccounts(ctx, limit)
		return viewRows(views, err)
	case core.CategorySuper:
		views, err := q.ListSuperAccounts(ctx, limit)
		return viewRows(views, err)
	case core.CategoryInvestments:
		views, err := q.ListInvestmentAccounts(ctx, limit)
		return viewRows(views, err)
	case core.CategoryMortgage:
		views, err := q.ListMortgage(ctx, limit)
		return viewRows(views, err)
	case core.CategoryBudget:
		views, err := q.ListBudget(ctx, limit)
		return viewRows(views, err)
	case core.CategoryCryptoTransactions:
		txs, err := q.ListCryptoTransactions(ctx, "")
		if err != nil {
			return nil, nil, err
		}
		rows := make([]listRow, len(txs))
		for i, tx := range txs {
			date := "-"
			if tx.Date != nil {
				date = tx.Date.String()
			}
			rows[i] = listRow{id: tx.ID, date: date,
				fields: fmt.Sprintf("platform=%s type=%s amount=%s", tx.Platform, tx.Type, FormatAUD(tx.Amount))}
		}
		return txs, rows, nil
	case core.CategoryCryptoSummaries:
		sums, err := q.ListCryptoSummaries(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows := make([]listRow, len(sums))
		for i, s := range sums {
			rows[i] = listRow{id: s.ID, date: "-",
				fields: fmt.Sprintf("platform=%s deposited=%s withdrawn=%s value=%s net=%s", s.Platform,
					FormatAUD(s.TotalDeposited), FormatAUD(s.TotalWithdrawn), FormatAUD(s.CurrentValue), FormatAUD(s.Net))}
		}
		return sums, rows, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", core.ErrInvalidCategory, category)
}

// viewRows renders the derived fields of each view as sorted key=value pairs.
func viewRows[T, D any](views []core.View[T, D], err error) (any, []listRow, error) {
	if err != nil {
		return nil, nil, err
	}
	rows := make([]listRow, len(views))
	for i, v := range views {
		fields, err := flatten(v.Derived)
		if err != nil {
			return nil, nil, err
		}
		rows[i] = listRow{id: v.ID, date: v.Date.String(), fields: fields}
	}
	return views, rows, nil
}

func flatten(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode derived fields: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return "", fmt.Errorf("decode derived fields: %w", err)
	}
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " "), nil
}

func joinCategories() string {
	names := make([]string, 0, len(core.SnapshotCategories)+2)
	for _, c := range core.SnapshotCategories {
		names = append(names, c.String())
	}
	names = append(names, core.CategoryCryptoTransactions.String(), core.CategoryCryptoSummaries.String())
	return strings.Join(names, ", ")
}
