package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/devfolio/internal/adapter/driven/github"
	"github.com/ericfisherdev/devfolio/internal/adapter/driven/notify"
	sqliteadapter "github.com/ericfisherdev/devfolio/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/devfolio/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/devfolio/internal/adapter/driving/web"
	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load .env (optional) and configuration.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.Default()
	accounts := cfg.Accounts.Accounts()
	for _, a := range accounts {
		if !a.HasCredential() {
			logger.Warn("account has no token, contributions will be unavailable", "account", a.ID, "credential_ref", a.CredentialRef)
		}
	}
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"accounts", len(accounts),
		"sensitive_account", cfg.Accounts.SensitiveID(),
		"request_timeout", cfg.RequestTimeout,
		"handler_timeout", cfg.HandlerTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode, migrations applied).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	version, dirty, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	logger.Info("database opened", "path", db.Path(), "schema_version", version, "dirty", dirty)

	// 4. Metrics registry.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 5. Wire driven adapters.
	ghClient := githubadapter.NewClient(
		cfg.RequestTimeout,
		githubadapter.WithMetrics(githubadapter.NewMetrics(reg)),
		githubadapter.WithLogger(logger),
	)
	contactStore := sqliteadapter.NewContactRepo(db)
	notifier := notify.NewLogNotifier(cfg.ContactRecipient, logger)

	// 6. Create services.
	activitySvc := application.NewActivityService(cfg.Accounts, ghClient, ghClient, logger)
	contactSvc := application.NewContactService(contactStore, notifier, logger)

	// 7. Register API and web routes on one mux.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(
		activitySvc,
		contactSvc,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		logger,
	)
	apiHandler.RegisterRoutes(mux)

	webHandler := webhandler.NewHandler(activitySvc, contactSvc, cfg.SiteTitle, logger)
	webhandler.RegisterRoutes(mux, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.Wrap(httphandler.WithTimeout(mux, cfg.HandlerTimeout), logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.HandlerTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("devfolio started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
