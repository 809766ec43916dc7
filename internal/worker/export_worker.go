package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/sheets"
)

// HistorySource computes the totals history to export.
type HistorySource interface {
	TotalsHistory(ctx context.Context, limit int) ([]core.DatedTotals, error)
}

// EventSource delivers change events until ctx ends.
type EventSource interface {
	ConsumeSnapshotChanges(ctx context.Context, handler func(context.Context, *amqp.SnapshotChangedMessage) error) error
}

type Config struct {
	// Interval between periodic exports. Zero disables the ticker.
	Interval time.Duration
	// HistoryLimit caps exported rows. Zero or less exports everything.
	HistoryLimit int
}

// ExportWorker keeps the spreadsheet copy of the totals history current.
type ExportWorker struct {
	source   HistorySource
	exporter sheets.TotalsExporter
	events   EventSource
	config   Config
	logger   *log.Logger

	// exportMu serialises exports so a tick and an event never interleave
	// their clear and write calls.
	exportMu sync.Mutex
}

// NewExportWorker builds a worker. events may be nil, leaving only the
// startup and periodic exports.
func NewExportWorker(source HistorySource, exporter sheets.TotalsExporter, events EventSource, config Config, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Default()
	}
	return &ExportWorker{
		source:   source,
		exporter: exporter,
		events:   events,
		config:   config,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Export recomputes the history and hands it to the exporter.
func (w *ExportWorker) Export(ctx context.Context) error {
	w.exportMu.Lock()
	defer w.exportMu.Unlock()

	start := time.Now()
	history, err := w.source.TotalsHistory(ctx, w.config.HistoryLimit)
	if err != nil {
		return fmt.Errorf("compute totals history: %w", err)
	}
	if err := w.exporter.ExportHistory(ctx, history); err != nil {
		return fmt.Errorf("export totals history: %w", err)
	}

	w.logger.InfoContext(ctx, "Totals history exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(history),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// HandleSnapshotChanged re-exports after a change event. Export failures are
// logged and the message is still acknowledged; the next tick retries.
func (w *ExportWorker) HandleSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error {
	w.logger.DebugContext(ctx, "Processing change event",
		log.FieldMessageID, msg.ID,
		log.FieldCategory, msg.Category,
		log.FieldOperation, msg.Operation)

	if err := w.Export(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Export after change event failed",
			log.NewFields().
				WithError(err, log.ErrorTypeNetwork).
				WithOperation(log.OpExport).
				ToSlice()...)
	}
	return nil
}

// Run exports once, then follows change events and the ticker until ctx is
// cancelled. A startup export failure is logged, not returned.
func (w *ExportWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Export worker started",
		"interval", w.config.Interval,
		"history_limit", w.config.HistoryLimit,
		"events", w.events != nil)

	if err := w.Export(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup export failed",
			log.NewFields().WithError(err, log.ErrorTypeNetwork).WithOperation(log.OpStartup).ToSlice()...)
	}

	g, ctx := errgroup.WithContext(ctx)
	if w.events != nil {
		g.Go(func() error {
			return w.events.ConsumeSnapshotChanges(ctx, w.HandleSnapshotChanged)
		})
	}
	if w.config.Interval > 0 {
		g.Go(func() error {
			return w.tick(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	w.logger.InfoContext(context.Background(), "Export worker stopped", log.FieldOperation, log.OpShutdown)
	return err
}

func (w *ExportWorker) tick(ctx context.Context) error {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Export(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic export failed",
					log.NewFields().WithError(err, log.ErrorTypeNetwork).WithOperation(log.OpExport).ToSlice()...)
			}
		}
	}
}
