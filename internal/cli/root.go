package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	DBPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the networthctl command tree. open is called by
// every command that reads or writes records; defaultDB seeds --db.
func NewRootCommand(open AppOpener, defaultDB string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "networthctl",
		Short: "Household net worth records and totals",
		Long: `Inspect and maintain the household net worth records.

Dates are accepted as YYYY-MM-DD, Unix milliseconds, or a spreadsheet
serial day number written as serial:45352.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", defaultDB, "path to the sqlite database")

	cmd.AddCommand(newTotalsCommand(opts, open))
	cmd.AddCommand(newHistoryCommand(opts, open))
	cmd.AddCommand(newListCommand(opts, open))
	cmd.AddCommand(newRatesCommand(opts, open))
	cmd.AddCommand(newAddCommand(opts, open))
	cmd.AddCommand(newImportCommand(opts, open))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

// withApp opens the backend, runs fn and closes the backend again.
func withApp(ctx context.Context, opts *RootOptions, open AppOpener, fn func(app *App) error) (err error) {
	app, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close backend: %w", cerr)
		}
	}()
	return fn(app)
}

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
