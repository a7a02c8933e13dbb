package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pricewatch/config"
	"pricewatch/internal/tracker"
	"pricewatch/logger"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg := config.Load()

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := tracker.Start(ctx, cfg, log)
	if err != nil {
		log.Fatal("tracker failed to start", zap.Error(err))
	}

	<-ctx.Done()
	log.Info("shutting down")
	client.Disconnect()
}
