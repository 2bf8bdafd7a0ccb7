package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/claim"
	claimStore "github.com/MrJamesThe3rd/mandi/internal/claim/store"
	"github.com/MrJamesThe3rd/mandi/internal/config"
	"github.com/MrJamesThe3rd/mandi/internal/database"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/mandi/internal/invoice/store"
	"github.com/MrJamesThe3rd/mandi/internal/logger"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/pdf"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
	queueStore "github.com/MrJamesThe3rd/mandi/internal/queue/store"
	"github.com/MrJamesThe3rd/mandi/internal/render"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	truckStore "github.com/MrJamesThe3rd/mandi/internal/truck/store"
	"github.com/MrJamesThe3rd/mandi/internal/user"
	userStore "github.com/MrJamesThe3rd/mandi/internal/user/store"
)

// The worker runs the PDF queues on their own, for deployments that start the API
// with WORKER_ENABLED=false.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck

	zap.ReplaceGlobals(lg)

	if err := run(cfg, lg); err != nil {
		lg.Fatal("worker stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var store media.Store = media.NewLocalStore(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL, lg)
	if cfg.Storage.Driver == "s3" {
		if store, err = media.NewS3Store(ctx, media.S3Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		}, lg); err != nil {
			return fmt.Errorf("configuring s3 storage: %w", err)
		}
	}

	var (
		queueRepo = queueStore.New(db)
		jobs      = queue.NewClient(queueRepo, cfg.Worker.MaxAttempts)

		invoiceService = invoice.NewService(invoiceStore.New(db),
			user.NewService(userStore.New(db)), truck.NewService(truckStore.New(db)), store, jobs, nil, lg)
		claimService = claim.NewService(claimStore.New(db), store, jobs, lg)

		renderer = pdf.NewRenderer(pdf.Config{LogoURL: cfg.PDF.LogoURL, FetchTimeout: cfg.PDF.FetchTimeout}, nil, lg)
	)

	manager := queue.NewManager(lg)

	for _, w := range render.Workers(
		queue.WorkerConfig{
			PollInterval:   cfg.Worker.PollInterval,
			BatchSize:      cfg.Worker.BatchSize,
			ProcessTimeout: cfg.Worker.ProcessTimeout,
			Lease:          cfg.Worker.Lease,
			Retry: queue.RetryStrategy{
				BaseBackoff: cfg.Worker.BaseBackoff,
				MaxBackoff:  cfg.Worker.MaxBackoff,
				Jitter:      cfg.Worker.Jitter,
			},
		},
		queueRepo,
		render.NewInvoicePDFHandler(invoiceService, renderer, store, cfg.PDF.StampURL, lg),
		render.NewDamageCertificateHandler(claimService, renderer, store, lg),
		lg,
	) {
		manager.Register(w)
	}

	if err := manager.StartAll(ctx); err != nil {
		return fmt.Errorf("starting workers: %w", err)
	}

	lg.Info("workers running")
	<-ctx.Done()
	lg.Info("shutting down")

	return manager.StopAll()
}
