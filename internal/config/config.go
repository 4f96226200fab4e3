package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileEnvKey  = "CONFIG_FILE"
	defaultConfigFile = "data/config.yaml"
)

type config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Session   SessionConfig   `yaml:"session"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Tracing   TracingConfig   `yaml:"tracing"`
	App       AppConfig       `yaml:"app"`
}

type Service struct {
	config config
}

// New reads the file named by CONFIG_FILE (data/config.yaml by default) and
// applies environment overrides on top of it.
func New() (*Service, error) {
	path := os.Getenv(configFileEnvKey)
	if path == "" {
		path = defaultConfigFile
	}
	return Load(path)
}

// Load is New with an explicit file path. A missing file is not an error:
// the bot can be configured from the environment alone.
func Load(path string) (*Service, error) {
	s := &Service{config: defaults()}

	rawYAML, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(rawYAML, &s.config); err != nil {
			return nil, errors.Wrap(err, "parsing yaml")
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, errors.Wrap(err, "reading config file")
	}

	if err = envconfig.Process("", &s.config); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}

	return s, nil
}

func defaults() config {
	return config{
		Telegram: TelegramConfig{Mode: RunModeWebhook, PollTimeout: 60},
		Webhook:  WebhookConfig{ListenAddr: ":8080", UpdatePath: "/"},
		Sheets:   SheetsConfig{RequestTimeout: defaultSheetsTimeout},
		Ledger:   LedgerConfig{Kind: LedgerSheets, WriteTimeout: defaultWriteTimeout},
		Session: SessionConfig{
			Kind:          SessionMemory,
			EntryTTL:      defaultSessionTTL,
			SweepInterval: defaultSweepInterval,
		},
		Postgres: PostgresConfig{PortNum: 5432, SSL: "disable"},
		Kafka:    KafkaConfig{RecTopic: "expenses", Consumer: "gastos-journal"},
		Tracing:  TracingConfig{Name: "gastos-bot", Agent: "localhost:6831"},
		App:      AppConfig{TimeZone: "UTC", GRPCHealthPort: 8090},
	}
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Webhook() *WebhookConfig {
	return &s.config.Webhook
}

func (s *Service) Sheets() *SheetsConfig {
	return &s.config.Sheets
}

func (s *Service) Ledger() *LedgerConfig {
	return &s.config.Ledger
}

func (s *Service) Session() *SessionConfig {
	return &s.config.Session
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}
