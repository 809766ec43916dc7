package main

import (
	"context"
	"os"
	"time"

	"networth/internal/cli"
	"networth/internal/log"
	"networth/internal/query"
	"networth/internal/sheets"
	gsheet "networth/internal/sheets/google"
	mem "networth/internal/sheets/memory"
	"networth/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	res, err := cli.OpenBackend(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	var exporter sheets.TotalsExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(context.Background(), gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			TotalsSheet:     cfg.GoogleTotalsSheet,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			_ = res.Close()
			os.Exit(1)
		}
		exporter = client
		logger.Info("Exporting totals history to Google Sheets", log.FieldSheetsRef, cfg.GoogleSpreadsheetID)
	} else {
		exporter = mem.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, exporting to memory only")
	}

	// The broker client that publishes change events also consumes them.
	var events worker.EventSource
	if src, ok := res.Publisher.(worker.EventSource); ok {
		events = src
	} else {
		logger.Info("Change events disabled, exporting on the ticker only", "interval", cfg.ExportInterval)
	}

	w := worker.NewExportWorker(query.NewEngine(res.Store), exporter, events, worker.Config{
		Interval:     cfg.ExportInterval,
		HistoryLimit: cfg.ExportHistoryLimit,
	}, logger)

	ctx, done := cli.GracefulShutdown(context.Background(), logger, 30*time.Second, nil)

	runErr := w.Run(ctx)
	if runErr == nil {
		cli.WaitForShutdown(ctx, done)
	}
	if err := res.Close(); err != nil {
		logger.Error("Backend close error", log.FieldError, err)
	}
	if runErr != nil {
		logger.Error("Export worker failed", log.FieldError, runErr)
		os.Exit(1)
	}
}
