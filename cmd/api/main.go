package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/mandi/internal/auth"
	authStore "github.com/MrJamesThe3rd/mandi/internal/auth/store"
	"github.com/MrJamesThe3rd/mandi/internal/auth/twofactor"
	"github.com/MrJamesThe3rd/mandi/internal/claim"
	claimStore "github.com/MrJamesThe3rd/mandi/internal/claim/store"
	"github.com/MrJamesThe3rd/mandi/internal/config"
	"github.com/MrJamesThe3rd/mandi/internal/database"
	"github.com/MrJamesThe3rd/mandi/internal/export"
	mandiHttp "github.com/MrJamesThe3rd/mandi/internal/http"
	authHandler "github.com/MrJamesThe3rd/mandi/internal/http/auth"
	claimHandler "github.com/MrJamesThe3rd/mandi/internal/http/claim"
	exportHandler "github.com/MrJamesThe3rd/mandi/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/mandi/internal/http/invoice"
	jobHandler "github.com/MrJamesThe3rd/mandi/internal/http/job"
	truckHandler "github.com/MrJamesThe3rd/mandi/internal/http/truck"
	vehicleHandler "github.com/MrJamesThe3rd/mandi/internal/http/vehicle"
	"github.com/MrJamesThe3rd/mandi/internal/invoice"
	"github.com/MrJamesThe3rd/mandi/internal/invoice/chatrace"
	invoiceStore "github.com/MrJamesThe3rd/mandi/internal/invoice/store"
	"github.com/MrJamesThe3rd/mandi/internal/logger"
	"github.com/MrJamesThe3rd/mandi/internal/media"
	"github.com/MrJamesThe3rd/mandi/internal/pdf"
	"github.com/MrJamesThe3rd/mandi/internal/queue"
	queueStore "github.com/MrJamesThe3rd/mandi/internal/queue/store"
	"github.com/MrJamesThe3rd/mandi/internal/render"
	"github.com/MrJamesThe3rd/mandi/internal/tracking"
	"github.com/MrJamesThe3rd/mandi/internal/tracking/firebase"
	"github.com/MrJamesThe3rd/mandi/internal/tracking/nominatim"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
	truckStore "github.com/MrJamesThe3rd/mandi/internal/truck/store"
	"github.com/MrJamesThe3rd/mandi/internal/user"
	userStore "github.com/MrJamesThe3rd/mandi/internal/user/store"
	"github.com/MrJamesThe3rd/mandi/internal/vehicle"
	vehicleStore "github.com/MrJamesThe3rd/mandi/internal/vehicle/store"
)

// noLocations stands in when no realtime database is configured; every truck reads as unknown.
type noLocations struct{}

func (noLocations) LatestLocation(context.Context, string) (*tracking.Snapshot, error) {
	return nil, nil
}

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
		lg.Fatal("api stopped", zap.Error(err))
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

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	store, mediaDir, err := newMediaStore(ctx, cfg, lg)
	if err != nil {
		return err
	}

	otp, err := twofactor.New(twofactor.Config{
		BaseURL:  cfg.Auth.OTPBaseURL,
		APIKey:   cfg.Auth.OTPAPIKey,
		Template: cfg.Auth.OTPTemplate,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("configuring OTP provider: %w", err)
	}

	locations, err := newLocationProvider(ctx, cfg, lg)
	if err != nil {
		return err
	}

	messenger, err := newMessenger(cfg, lg)
	if err != nil {
		return err
	}

	queueRepo := queueStore.New(db)

	var (
		jobs   = queue.NewClient(queueRepo, cfg.Worker.MaxAttempts)
		tokens = auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

		userService     = user.NewService(userStore.New(db))
		truckService    = truck.NewService(truckStore.New(db))
		invoiceService  = invoice.NewService(invoiceStore.New(db), userService, truckService, store, jobs, messenger, lg)
		claimService    = claim.NewService(claimStore.New(db), store, jobs, lg)
		vehicleService  = vehicle.NewService(vehicleStore.New(db), truckService)
		authService     = auth.NewService(otp, authStore.New(db), userService, tokens, cfg.Auth.OTPTTL, lg)
		trackingService = tracking.NewService(locations, nominatim.New(nominatim.Config{
			BaseURL:   cfg.Geocoder.BaseURL,
			UserAgent: cfg.Geocoder.UserAgent,
			Timeout:   cfg.Geocoder.Timeout,
		}), cfg.Firebase.Timeout, lg)
		exportService = export.NewService(invoiceService, lg)
	)

	router := mandiHttp.New(mandiHttp.Handlers{
		Invoices: invoiceHandler.NewHandler(invoiceService, cfg.Server.MaxUploadBytes),
		Claims:   claimHandler.NewHandler(claimService, cfg.Server.MaxUploadBytes),
		Trucks:   truckHandler.NewHandler(truckService, trackingService, cfg.Server.MaxUploadBytes),
		Vehicles: vehicleHandler.NewHandler(vehicleService),
		Auth:     authHandler.NewHandler(authService, auth.Middleware(tokens)),
		Jobs:     jobHandler.NewHandler(jobs),
		Export:   exportHandler.NewHandler(exportService),
	}, mandiHttp.Options{
		Tokens:         tokens,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MediaDir:       mediaDir,
		Logger:         lg,
	})

	manager := queue.NewManager(lg)

	if cfg.Worker.Enabled {
		renderer := pdf.NewRenderer(pdf.Config{LogoURL: cfg.PDF.LogoURL, FetchTimeout: cfg.PDF.FetchTimeout}, nil, lg)

		for _, w := range render.Workers(
			workerConfig(cfg),
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
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		lg.Info("starting server", zap.String("addr", srv.Addr), zap.Bool("workers", cfg.Worker.Enabled))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}

	if err := manager.StopAll(); err != nil {
		lg.Error("stopping workers", zap.Error(err))
	}

	return nil
}

// newMediaStore also returns the directory to serve under /media, empty for object storage.
func newMediaStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (media.Store, string, error) {
	if cfg.Storage.Driver == "s3" {
		s, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		}, lg)
		if err != nil {
			return nil, "", fmt.Errorf("configuring s3 storage: %w", err)
		}

		return s, "", nil
	}

	local := media.NewLocalStore(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL, lg)

	return local, local.Root(), nil
}

func newLocationProvider(ctx context.Context, cfg *config.Config, lg *zap.Logger) (tracking.LocationProvider, error) {
	if cfg.Firebase.DatabaseURL == "" {
		lg.Warn("FIREBASE_DATABASE_URL not set, truck tracking reports every vehicle as unknown")
		return noLocations{}, nil
	}

	p, err := firebase.New(ctx, firebase.Config{
		DatabaseURL:    cfg.Firebase.DatabaseURL,
		CredentialsB64: cfg.Firebase.CredentialsB64,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to realtime database: %w", err)
	}

	return p, nil
}

// newMessenger returns nil when Chatrace is not configured, which disables WhatsApp delivery.
func newMessenger(cfg *config.Config, lg *zap.Logger) (invoice.Messenger, error) {
	if cfg.Chatrace.APIKey == "" {
		lg.Warn("CHATRACE_API_KEY not set, invoices cannot be sent on WhatsApp")
		return nil, nil
	}

	c, err := chatrace.New(chatrace.Config{
		BaseURL: cfg.Chatrace.BaseURL,
		APIKey:  cfg.Chatrace.APIKey,
		FlowID:  cfg.Chatrace.FlowID,
		Timeout: cfg.Chatrace.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring chatrace: %w", err)
	}

	return c, nil
}

func workerConfig(cfg *config.Config) queue.WorkerConfig {
	return queue.WorkerConfig{
		PollInterval:   cfg.Worker.PollInterval,
		BatchSize:      cfg.Worker.BatchSize,
		ProcessTimeout: cfg.Worker.ProcessTimeout,
		Lease:          cfg.Worker.Lease,
		Retry: queue.RetryStrategy{
			BaseBackoff: cfg.Worker.BaseBackoff,
			MaxBackoff:  cfg.Worker.MaxBackoff,
			Jitter:      cfg.Worker.Jitter,
		},
	}
}
