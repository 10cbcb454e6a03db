package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockbot/internal/autoorder"
	"stockbot/internal/bot"
	"stockbot/internal/config"
	"stockbot/internal/conversation"
	"stockbot/internal/infrastructure/logger"
	"stockbot/internal/mail"
	"stockbot/internal/notify"
	"stockbot/internal/scheduler"
	"stockbot/internal/server"
	"stockbot/internal/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway, err := sheets.NewGateway(ctx, cfg.Sheets, zapLogger)
	if err != nil {
		zapLogger.Fatal("connecting to google sheets", zap.Error(err))
	}

	telegram, err := bot.NewTelegram(cfg.Bot.Token, zapLogger)
	if err != nil {
		zapLogger.Fatal("connecting to telegram", zap.Error(err))
	}

	dispatcher := mail.NewDispatcher(cfg.Mail, zapLogger)
	notifier := notify.New(telegram, cfg.Bot.AdminIDs, zapLogger)
	evaluator := autoorder.NewEvaluator(gateway, dispatcher, notifier, zapLogger)
	flow := conversation.NewFlow(conversation.NewStore(), gateway, notifier, zapLogger)

	handler := bot.NewHandler(telegram, gateway, flow, evaluator, dispatcher, notifier, cfg.Bot, zapLogger)

	sched, err := scheduler.New(evaluator, cfg.AutoOrder.DailyCron, zapLogger)
	if err != nil {
		zapLogger.Fatal("configuring scheduler", zap.Error(err))
	}
	sched.Start(ctx)

	srv := server.New(cfg.Server.Port, zapLogger)
	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("health server error", zap.Error(err))
		}
	}()

	updates := telegram.Updates()
	go func() {
		for update := range updates {
			handler.HandleUpdate(ctx, update)
		}
	}()
	zapLogger.Info("bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("received shutdown signal")

	telegram.Stop()
	sched.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("health server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("bot stopped gracefully")
}
