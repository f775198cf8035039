package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"

	"github.com/plenno/plenno/internal/adapter/billing"
	"github.com/plenno/plenno/internal/adapter/fsm"
	"github.com/plenno/plenno/internal/adapter/mail"
	otelx "github.com/plenno/plenno/internal/adapter/otel"
	riverx "github.com/plenno/plenno/internal/adapter/river"
	"github.com/plenno/plenno/internal/adapter/sqlite"
	"github.com/plenno/plenno/internal/app"
	"github.com/plenno/plenno/internal/domain"

	handler "github.com/plenno/plenno/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "plenno.db")
	portalURL := envOrDefault("PORTAL_BASE_URL", "http://localhost:"+port)

	ctx := context.Background()

	// --- Observability ---
	providers, err := otelx.Setup(ctx, otelx.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	// --- Storage ---
	db, err := otelx.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// --- Async events (River shares the SQLite handle) ---
	riverClient, err := riverx.Setup(ctx, db)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			logger.Error("river stop", "error", err)
		}
	}()

	// --- Adapters (out) ---
	tracedRepo := otelx.NewTracingRepository(repo)
	publisher := otelx.NewTracingPublisher(riverx.NewPublisher(riverClient))

	var notifier domain.NotificationDispatcher
	if mailURL := os.Getenv("MAIL_BASE_URL"); mailURL != "" {
		notifier = mail.New(mailURL, os.Getenv("MAIL_API_KEY"),
			envOrDefault("MAIL_FROM", "onboarding@plenno.com.br"), logger)
	} else {
		logger.Warn("MAIL_BASE_URL not set, onboarding mail goes to the log")
		notifier = mail.NewLogDispatcher(logger)
	}

	// --- Application ---
	classifier := app.NewClassifier(splitDomains(envOrDefault("PROBLEM_DOMAINS", "dominio-problema.com.br")))
	orch := app.NewOrchestrator(app.Collaborators{
		Repo:      tracedRepo,
		Plans:     sqlite.NewPlanCatalog(db),
		Modules:   sqlite.NewModuleCatalog(db),
		Billing:   billing.New(nil, logger),
		Ledger:    sqlite.NewLedger(db),
		Notifier:  notifier,
		Publisher: publisher,
	}, classifier, app.OrchestratorConfig{
		PortalBaseURL: portalURL,
		Logger:        logger,
	})
	svc := app.NewTenantService(tracedRepo, publisher, fsm.New())

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware("plenno", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("plenno", "0.1.0"))
	handler.Register(api, orch, svc)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("plenno listening", "port", port, "docs", fmt.Sprintf("http://localhost:%s/docs", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitDomains parses the comma-separated problem-domain list.
func splitDomains(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
