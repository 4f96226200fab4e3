package config

import "time"

const (
	SessionMemory   = "memory"
	SessionMemcache = "memcache"

	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

type SessionConfig struct {
	Kind          string        `yaml:"backend" envconfig:"SESSION_BACKEND"`
	EntryTTL      time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
	SweepInterval time.Duration `yaml:"sweep-interval" envconfig:"SESSION_SWEEP_INTERVAL"`
}

func (s *SessionConfig) Backend() string {
	return s.Kind
}

func (s *SessionConfig) TTL() time.Duration {
	return s.EntryTTL
}

func (s *SessionConfig) Sweep() time.Duration {
	return s.SweepInterval
}
