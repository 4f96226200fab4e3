package storage

import (
	"embed"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// postgres migrate driver
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the expenses schema up to date.
func Migrate(config config) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dataSourceName(config))
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Error("close migrations", zap.NamedError("source", srcErr), zap.NamedError("db", dbErr))
		}
	}()

	fromVer, _, _ := m.Version()
	start := time.Now()
	err = m.Up()
	switch {
	case err == nil:
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migrations up to date", zap.Uint("version", fromVer))
		return nil
	default:
		return errors.Wrap(err, "apply migrations")
	}

	toVer, _, _ := m.Version()
	logger.Info("migrations applied",
		zap.Uint("from", fromVer),
		zap.Uint("to", toVer),
		zap.Duration("took", time.Since(start)))
	return nil
}
