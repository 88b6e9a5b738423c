package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"reventa/internal/amqp"
	"reventa/internal/config"
	"reventa/internal/log"
	"reventa/internal/sheets"
	gsheet "reventa/internal/sheets/google"
	"reventa/internal/sheets/memory"
	"reventa/internal/storage"
	"reventa/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting reventa-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a spreadsheet ID the worker still drains the queue so
	// messages do not pile up, appending to an in-process ledger.
	var ledger sheets.SaleLedger
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleLedgerSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			os.Exit(1)
		}
		ledger = client
		logger.Info("Google Sheets ledger initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleLedgerSheet)
	} else {
		ledger = memory.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, using in-memory ledger")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, ledger, cfg.SyncBatchSize)

	// Catch up on anything that was queued while the worker was down.
	if err := syncWorker.ProcessPendingSales(ctx); err != nil {
		logger.Error("Startup pending scan failed", "error", err)
	}

	go func() {
		err := amqpClient.ConsumeSaleSync(ctx, func(msg *amqp.SaleSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Consumer stopped", "error", err)
			stop()
		}
	}()

	go func() {
		if err := syncWorker.RunPendingScan(ctx, cfg.SyncInterval); err != nil && ctx.Err() == nil {
			logger.Error("Pending scan stopped", "error", err)
		}
	}()

	logger.Info("Worker running", "queue", cfg.AMQPQueue, "scan_interval", cfg.SyncInterval.String())
	<-ctx.Done()
	logger.Info("Worker stopped gracefully")
}
