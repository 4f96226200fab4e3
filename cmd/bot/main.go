package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"max.ks1230/gastos-bot/internal/clients/tg"
	"max.ks1230/gastos-bot/internal/config"
	"max.ks1230/gastos-bot/internal/entity/category"
	"max.ks1230/gastos-bot/internal/health"
	"max.ks1230/gastos-bot/internal/logger"
	"max.ks1230/gastos-bot/internal/model/messages"
	"max.ks1230/gastos-bot/internal/tracing"
	"max.ks1230/gastos-bot/internal/webhook"
)

func main() {
	defer logger.Sync()
	logger.Info("Bot init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	tracer, err := tracing.Init(conf.Tracing())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer func() { _ = tracer.Close() }()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sessions, err := newSessionStore(conf)
	if err != nil {
		logger.Fatal("failed to init session store:", zap.Error(err))
	}

	gateway, closeLedger := newLedger(ctx, conf)
	defer closeLedger()

	controller := messages.NewController(category.Default(), sessions, gateway, conf.App().Location())
	msgService := messages.NewService(client, controller)

	healthServer, err := health.NewServer(conf.App().HealthPort())
	if err != nil {
		logger.Fatal("failed to init health server:", zap.Error(err))
	}

	logger.Info("Bot init - end",
		zap.String("mode", conf.Telegram().RunMode()),
		zap.String("session", conf.Session().Backend()),
		zap.String("ledger", conf.Ledger().Backend()),
		zap.Bool("ledgerEnabled", gateway.Enabled()))

	group, ctx := errgroup.WithContext(ctx)

	group.Go(healthServer.Serve)
	group.Go(func() error {
		<-ctx.Done()
		healthServer.Shutdown()
		return nil
	})

	if sessions.janitor != nil {
		group.Go(func() error {
			sessions.janitor.RunEviction(ctx, conf.Session().Sweep())
			return nil
		})
	}

	switch conf.Telegram().RunMode() {
	case config.RunModeLongpoll:
		group.Go(func() error {
			client.ListenUpdates(ctx, msgService)
			return nil
		})
	default:
		server := webhook.NewServer(conf.Webhook(), msgService)
		group.Go(func() error {
			return server.Run(ctx)
		})
	}

	if err = group.Wait(); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}
