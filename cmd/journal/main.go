package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/clients/kafka"
	"max.ks1230/gastos-bot/internal/config"
	"max.ks1230/gastos-bot/internal/logger"
	"max.ks1230/gastos-bot/internal/model/storage"
	"max.ks1230/gastos-bot/internal/tracing"
)

func main() {
	defer logger.Sync()
	logger.Info("Journal init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	tracer, err := tracing.Init(conf.Tracing())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer func() { _ = tracer.Close() }()

	if err = storage.Migrate(conf.Postgres()); err != nil {
		logger.Fatal("failed to migrate postgres:", zap.Error(err))
	}

	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}
	defer db.Close()

	consumer, err := kafka.NewConsumer(conf.Kafka(), db)
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	logger.Info("Journal init - end", zap.String("topic", conf.Kafka().ExpensesTopic()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Error("failed to consume expense events", zap.Error(err))
	}
	logger.Info("Journal stopped")
}
