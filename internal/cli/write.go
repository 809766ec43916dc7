package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"networth/internal/core"
	"networth/internal/services"
	"networth/internal/storage"
)

func newRatesCommand(opts *RootOptions, open AppOpener) *cobra.Command {
	var dateArg, gbpArg, usdArg string
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Set exchange rates on the snapshots stored at one date",
		Long: `Write --gbp-aud into the UK and super snapshots and --usd-aud into the
investments snapshot stored at exactly --date. Tables with no snapshot on
that date are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := core.ParseDate(dateArg)
			if err != nil {
				return err
			}
			gbpAud, err := core.ParseOptionalAmount(gbpArg)
			if err != nil {
				return fmt.Errorf("--gbp-aud: %w", err)
			}
			usdAud, err := core.ParseOptionalAmount(usdArg)
			if err != nil {
				return fmt.Errorf("--usd-aud: %w", err)
			}
			return withApp(cmd.Context(), opts, open, func(app *App) error {
				updated, err := app.Mutations.UpdateExchangeRates(cmd.Context(), date, gbpAud, usdAud)
				if err != nil {
					return err
				}
				result := map[string]any{"date": date.String(), "updated": updated}
				return formatter(cmd, opts).Print(result, func(w io.Writer) error {
					if len(updated) == 0 {
						fmt.Fprintf(w, "No snapshots stored on %s; nothing updated.\n", date)
						return nil
					}
					fmt.Fprintf(w, "Updated %s on %s.\n", joinNames(updated), date)
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&dateArg, "date", "", "snapshot date (required)")
	cmd.Flags().StringVar(&gbpArg, "gbp-aud", "", "GBP to AUD rate")
	cmd.Flags().StringVar(&usdArg, "usd-aud", "", "USD to AUD rate")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newAddCommand(opts *RootOptions, open AppOpener) *cobra.Command {
	var dateArg, file string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a snapshot row across tables from a JSON file",
		Long: `Read a JSON object keyed by category name (currentAccounts, cashAccounts,
ukAccounts, superAccounts, investmentAccounts, mortgage, budget) and store
each present table at one date. --date overrides a "date" key in the file.
Use --file - to read standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := readSnapshotRow(cmd, file)
			if err != nil {
				return err
			}
			if dateArg != "" {
				if row.Date, err = core.ParseDate(dateArg); err != nil {
					return err
				}
			}
			return withApp(cmd.Context(), opts, open, func(app *App) error {
				res, err := app.Mutations.AddSnapshot(cmd.Context(), row)
				if err != nil {
					return err
				}
				return formatter(cmd, opts).Print(res, func(w io.Writer) error {
					fmt.Fprintf(w, "Added %s on %s.\n", joinNames(res.Inserted), res.Date)
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&dateArg, "date", "", "snapshot date")
	cmd.Flags().StringVar(&file, "file", "", "JSON file with the row (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readSnapshotRow(cmd *cobra.Command, file string) (services.SnapshotRow, error) {
	var row services.SnapshotRow
	r, closeFn, err := openInput(cmd, file)
	if err != nil {
		return row, err
	}
	defer closeFn()
	if err := json.NewDecoder(r).Decode(&row); err != nil {
		return row, fmt.Errorf("decode %s: %w", file, err)
	}
	return row, nil
}

func newImportCommand(opts *RootOptions, open AppOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Bulk-load every table from a JSON dataset",
		Long: `Load a dataset keyed by category name, where each snapshot table holds
[{"date": ..., "raw": {...}}] rows and cryptoTransactions and
cryptoSummaries hold plain records. Nothing is written when any row is
invalid or any snapshot date is already taken.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()
			ds, err := services.DecodeDataset(r)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, open, func(app *App) error {
				res, err := app.Mutations.Import(cmd.Context(), ds)
				if err != nil {
					return err
				}
				return formatter(cmd, opts).Print(map[string]any{"imported": res, "total": res.Total()}, func(w io.Writer) error {
					printRow(w, "CATEGORY", "ROWS")
					for _, c := range importOrder {
						if n := res[c]; n > 0 {
							printRow(w, c.String(), fmt.Sprint(n))
						}
					}
					printRow(w, "total", fmt.Sprint(res.Total()))
					return nil
				})
			})
		},
	}
}

var importOrder = append(append([]core.Category{}, core.SnapshotCategories...),
	core.CategoryCryptoTransactions, core.CategoryCryptoSummaries)

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the sqlite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.DBPath == "" {
				return errors.New("--db is required")
			}
			version, err := storage.RunMigrations(opts.DBPath)
			if err != nil {
				return err
			}
			result := map[string]any{"db": opts.DBPath, "version": version}
			return formatter(cmd, opts).Print(result, func(w io.Writer) error {
				fmt.Fprintf(w, "%s is at schema version %d.\n", opts.DBPath, version)
				return nil
			})
		},
	}
}

// openInput opens path, or standard input for "-".
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func joinNames(categories []core.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
