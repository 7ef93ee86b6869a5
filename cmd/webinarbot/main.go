package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/WebinarBoT/internal/api"
	"github.com/Kerhoff/WebinarBoT/internal/config"
	"github.com/Kerhoff/WebinarBoT/internal/handlers"
	"github.com/Kerhoff/WebinarBoT/internal/metrics"
	"github.com/Kerhoff/WebinarBoT/internal/repository"
	"github.com/Kerhoff/WebinarBoT/internal/repository/dbrepo"
	"github.com/Kerhoff/WebinarBoT/internal/repository/memory"
	"github.com/Kerhoff/WebinarBoT/internal/service"
	"github.com/Kerhoff/WebinarBoT/internal/telegram"
	"github.com/Kerhoff/WebinarBoT/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting WebinarBoT...")

	m := metrics.New()

	// User store
	var users repository.UserRepository
	if cfg.InMemoryStore() {
		l.Warn("Using in-memory user store; registrations are lost on restart")
		users = memory.NewUserRepository()
	} else {
		db, err := config.NewDatabase(cfg.DatabaseURL, l)
		if err != nil {
			l.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			l.Fatalf("Failed to run migrations: %v", err)
		}
		users = dbrepo.NewUserRepository(db.DB)
	}

	// Telegram client
	client, err := telegram.NewClient(cfg.TelegramToken, telegram.ClientOptions{
		Endpoint: cfg.APIEndpoint,
		Timeout:  cfg.HTTPTimeout(),
		Debug:    cfg.BotDebug,
	}, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram client: %v", err)
	}
	// getUpdates is rejected while a webhook is set.
	if err := client.DeleteWebhook(); err != nil {
		l.Fatalf("Failed to delete webhook: %v", err)
	}

	// Service layer
	svc := service.New(l, m, users, client, cfg.TelegramGroup)

	// Register handlers
	screens := handlers.NewScreens(cfg.TelegramGroup, cfg.GroupLink, cfg.WebinarLink)
	router := telegram.NewRouter(client, l, m)
	router.SetUsername(client.Username())
	handlers.Register(router, svc, client, screens, l)

	bot := telegram.NewBot(client, router, telegram.PollConfig{
		Timeout:    cfg.PollTimeout,
		Interval:   cfg.PollInterval,
		RetryDelay: cfg.RetryDelay,
	}, l, m)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Operational HTTP endpoints
	apiServer := api.NewServer(users, m, l)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	l.Infof("WebinarBoT started as @%s, group %s", client.Username(), cfg.TelegramGroup)

	// Blocks until shutdown.
	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Errorf("Bot error: %v", err)
	}

	l.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown error: %v", err)
	}

	l.Info("WebinarBoT stopped")
}
