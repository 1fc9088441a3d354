package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigdesk/settlement-service/internal/app/background"
	"github.com/gigdesk/settlement-service/internal/app/setup"
	"github.com/gigdesk/settlement-service/internal/config"
	httpdelivery "github.com/gigdesk/settlement-service/internal/delivery/http"
	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/migrate"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	cfg := config.MustLoad()
	setupLogger(cfg)

	deps := setup.InitializeDependencies(cfg)
	if err := migrate.RunMigrations(deps.DB, cfg.SettlementDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	usecases := setup.InitializeUseCases(deps)

	fees := domain.FeeSchedule{
		PlatformRateBps:   cfg.FeeSchedule.PlatformRateBps,
		ProcessingFixed:   cfg.FeeSchedule.ProcessingFixed,
		ProcessingRateBps: cfg.FeeSchedule.ProcessingRateBps,
	}

	router := httpdelivery.NewRouter(httpdelivery.Handlers{
		Orders:   httpdelivery.NewOrderHandler(usecases.OrderUsecase, usecases.LedgerUsecase, fees, cfg.Sweeper.PaymentWindow),
		Disputes: httpdelivery.NewDisputeHandler(usecases.DisputeUsecase),
		Payouts:  httpdelivery.NewPayoutHandler(usecases.PayoutUsecase),
		Balances: httpdelivery.NewBalanceHandler(usecases.BalanceUsecase),
		Webhooks: httpdelivery.NewWebhookHandler(usecases.LedgerUsecase),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := background.NewBackgroundTasks(usecases.OrderUsecase, usecases.LedgerUsecase, cfg.Sweeper.Interval)
	tasks.StartAll(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		slog.Info("settlement service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err.Error())
	}
	if err := deps.Publisher.Close(); err != nil {
		slog.Error("kafka publisher close failed", "error", err.Error())
	}
}

func setupLogger(cfg *config.SettlementConfig) {
	var level slog.Level
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
