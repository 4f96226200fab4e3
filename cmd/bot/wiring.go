package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/clients/cache"
	"max.ks1230/gastos-bot/internal/clients/kafka"
	"max.ks1230/gastos-bot/internal/clients/sheets"
	"max.ks1230/gastos-bot/internal/config"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
	"max.ks1230/gastos-bot/internal/model/ledger"
	"max.ks1230/gastos-bot/internal/model/session"
	"max.ks1230/gastos-bot/internal/model/storage"
)

type sessionStore interface {
	SetCategory(ctx context.Context, chatID int64, key string) error
	GetCategory(ctx context.Context, chatID int64) (string, bool, error)
	Clear(ctx context.Context, chatID int64) error
}

type sessionBackend struct {
	sessionStore
	// janitor is set for stores that evict expired entries themselves.
	janitor *session.InMemStore
}

func newSessionStore(conf *config.Service) (sessionBackend, error) {
	switch conf.Session().Backend() {
	case config.SessionMemcache:
		store, err := cache.NewSessionCache(conf.Memcached(), conf.Session().TTL())
		if err != nil {
			return sessionBackend{}, errors.Wrap(err, "memcache sessions")
		}
		return sessionBackend{sessionStore: store}, nil
	case config.SessionMemory, "":
		store := session.NewInMemStore(conf.Session().TTL())
		return sessionBackend{sessionStore: store, janitor: store}, nil
	}
	return sessionBackend{}, errors.Errorf("unknown session backend %q", conf.Session().Backend())
}

type ledgerWriter interface {
	Write(ctx context.Context, rec expense.Record) error
}

// newLedger never fails: a backend that cannot be built yields a disabled
// gateway so the bot keeps answering and reports the storage error per expense.
func newLedger(ctx context.Context, conf *config.Service) (*ledger.Gateway, func()) {
	closers := make([]func(), 0, 2)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var (
		writer ledgerWriter
		err    error
	)
	switch conf.Ledger().Backend() {
	case config.LedgerPostgres:
		var db *storage.PostgresStorage
		if db, err = newPostgresStorage(conf); err == nil {
			closers = append(closers, db.Close)
			writer = db
		}
	case config.LedgerMemory:
		writer = storage.NewInMemStorage()
	case config.LedgerSheets, "":
		writer, err = sheets.New(ctx, conf.Sheets())
	default:
		err = errors.Errorf("unknown ledger backend %q", conf.Ledger().Backend())
	}
	if err != nil {
		return ledger.NewDisabledGateway(errors.Wrap(ledger.ErrConfigurationMissing, err.Error())), closeAll
	}

	opts := []ledger.Option{ledger.WithTimeout(conf.Ledger().Timeout())}
	if conf.Ledger().PublishEvents() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Error("expense events disabled", zap.Error(err))
		} else {
			closers = append(closers, producer.Close)
			opts = append(opts, ledger.WithPublisher(producer))
		}
	}
	gateway := ledger.NewGateway(writer, opts...)
	return gateway, func() {
		gateway.Wait()
		closeAll()
	}
}

func newPostgresStorage(conf *config.Service) (*storage.PostgresStorage, error) {
	if err := storage.Migrate(conf.Postgres()); err != nil {
		return nil, err
	}
	return storage.NewPostgresStorage(conf.Postgres())
}
