package config

import "time"

const (
	LedgerSheets   = "sheets"
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"

	defaultWriteTimeout = 10 * time.Second
)

type LedgerConfig struct {
	Kind         string        `yaml:"backend" envconfig:"LEDGER_BACKEND"`
	WriteTimeout time.Duration `yaml:"write-timeout" envconfig:"LEDGER_WRITE_TIMEOUT"`
	Events       bool          `yaml:"publish-events" envconfig:"LEDGER_PUBLISH_EVENTS"`
}

func (l *LedgerConfig) Backend() string {
	return l.Kind
}

func (l *LedgerConfig) Timeout() time.Duration {
	return l.WriteTimeout
}

func (l *LedgerConfig) PublishEvents() bool {
	return l.Events
}
