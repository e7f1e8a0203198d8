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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/Kub3rn3tesofficial/test-infra/internal/adapter/driven/github"
	sqliteadapter "github.com/Kub3rn3tesofficial/test-infra/internal/adapter/driven/sqlite"
	httphandler "github.com/Kub3rn3tesofficial/test-infra/internal/adapter/driving/http"
	"github.com/Kub3rn3tesofficial/test-infra/internal/adapter/driving/webhook"
	"github.com/Kub3rn3tesofficial/test-infra/internal/application"
	"github.com/Kub3rn3tesofficial/test-infra/internal/classify"
	"github.com/Kub3rn3tesofficial/test-infra/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"xref_host", cfg.XRefHost,
		"signature_validation", cfg.WebhookSecret != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	eventStore := sqliteadapter.NewEventRepo(db)
	resultStore := sqliteadapter.NewResultRepo(db)

	var statusSource *githubadapter.StatusClient
	if cfg.HasGitHubToken() {
		statusSource = githubadapter.NewStatusClient(cfg.GitHubToken)
		slog.Info("github status source enabled")
	} else {
		slog.Info("no github token configured, classifying without commit statuses")
	}

	classifier := classify.New(cfg.AutomationAccounts, cfg.XRefHost)

	var svc *application.ClassifyService
	if statusSource != nil {
		svc = application.NewClassifyService(eventStore, resultStore, statusSource, classifier)
	} else {
		svc = application.NewClassifyService(eventStore, resultStore, nil, classifier)
	}

	hook := webhook.NewHandler(eventStore, svc, cfg.WebhookSecret, slog.Default())
	apiHandler := httphandler.NewHandler(resultStore, svc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, http.HandlerFunc(hook.Receive), slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("classifier started", "listen_addr", cfg.ListenAddr)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
