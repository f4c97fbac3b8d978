package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/airtable"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/archive"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/blob"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/config"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/logging"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/metrics"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/pdfproxy"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/service"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/sqlstore"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/verify"
)

const shutdownTimeout = 10 * time.Second

// Usage example on the command line:
// > AIM_PORT=8080 AIM_AIRTABLE_CONTACT_BASE_ID=appXXXX AIM_AIRTABLE_CONTACT_API_KEY=patXXXX GIN_MODE=release AIM_GIN_LOGGING=off go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	client := &http.Client{Timeout: cfg.UpstreamTimeout}

	contact, project, closeStores, err := openStores(cfg, client, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	var verifier verify.Verifier = verify.Disabled{}
	if cfg.VerificationEnabled() {
		verifier = verify.NewTurnstile(cfg.TurnstileSecret, cfg.TurnstileVerifyURL, client)
	} else {
		logger.Warn("bot verification disabled, AIM_TURNSTILE_SECRET is not set")
	}

	deps := service.Dependencies{
		Contact:  contact,
		Project:  project,
		Verifier: verifier,
		PDFs:     pdfproxy.New(pdfSources(cfg), client),
		Logger:   logger,
		Metrics:  metrics.New(),
	}
	uploader, err := blob.NewClient(cfg.BlobAPIURL, cfg.BlobToken, client)
	if err != nil {
		logger.Warn("admin uploads disabled", zap.Error(err))
		deps.UploaderErr = err
	} else {
		deps.Uploader = uploader
	}

	router := service.New(cfg, deps).SetupHttpRouter()
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr), zap.String("store_driver", cfg.StoreDriver))
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStores builds the contact and project backends for the configured driver. A base without
// credentials yields an unavailable backend instead of an error.
func openStores(cfg *config.Config, client *http.Client, logger *zap.Logger) (records.Backend, records.Backend, func(), error) {
	contactBase, contactErr := cfg.ContactBase()
	projectBase, projectErr := cfg.ProjectBase()

	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := sqlstore.Open(sqlstore.DSNConfig{
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Host:     cfg.DBHost,
			Database: cfg.DBName,
		})
		if err != nil {
			return records.Backend{}, records.Backend{}, nil, err
		}
		contact := sqlBackend(db, contactBase, contactErr, logger)
		project := sqlBackend(db, projectBase, projectErr, logger)
		return contact, project, func() { _ = db.Close() }, nil
	default:
		contact := airtableBackend(cfg, client, contactBase, contactErr, logger)
		project := airtableBackend(cfg, client, projectBase, projectErr, logger)
		return contact, project, func() {}, nil
	}
}

func airtableBackend(cfg *config.Config, client *http.Client, base config.Base, err error, logger *zap.Logger) records.Backend {
	if err != nil {
		logger.Warn("store not configured", zap.Error(err))
		return records.NewBackend(nil, err)
	}
	store, err := airtable.New(airtable.Config{
		BaseURL:    cfg.AirtableAPIURL,
		BaseID:     base.ID,
		APIKey:     base.APIKey,
		HTTPClient: client,
	})
	if err != nil {
		return records.NewBackend(nil, err)
	}
	return records.NewBackend(store, nil)
}

func sqlBackend(db *sqlx.DB, base config.Base, err error, logger *zap.Logger) records.Backend {
	if err != nil {
		logger.Warn("store not configured", zap.Error(err))
		return records.NewBackend(nil, err)
	}
	store, err := sqlstore.New(db, base.ID)
	if err != nil {
		logger.Error("could not prepare statements", zap.Error(err))
		return records.NewBackend(nil, err)
	}
	return records.NewBackend(store, nil)
}

// pdfSources returns the built-in archive locations overlaid with the configured ones.
func pdfSources(cfg *config.Config) map[string]string {
	sources := archive.Sources()
	maps.Copy(sources, cfg.PDFSources)
	return sources
}
