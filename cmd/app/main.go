// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-store-bot/internal/config"
	"telegram-store-bot/internal/infra/api"
	"telegram-store-bot/internal/infra/commerce"
	"telegram-store-bot/internal/infra/logging"
	"telegram-store-bot/internal/infra/metrics"
	red "telegram-store-bot/internal/infra/redis"
	tele "telegram-store-bot/internal/infra/telegram"
	"telegram-store-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log)
	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	sessions := red.NewSessionRepo(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Commerce ----
	elastic := commerce.NewElasticClient(&cfg.Commerce, logger)

	// ---- Telegram ----
	bot, err := tele.NewRealBot(&cfg.Bot, locker, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	// ---- Dialog ----
	dialog := usecase.NewDialogUseCase(sessions, elastic, bot, cfg.Session.Namespace, logger)

	go func() {
		if err := bot.StartPolling(ctx, dialog); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops HTTP server ----
	ops := api.NewServer(cfg.Ops.Port, redisClient)
	go func() {
		logger.Info().Int("port", cfg.Ops.Port).Msg("ops server listening")
		if err := ops.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	bot.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = ops.Shutdown(shutdownCtx)
}
