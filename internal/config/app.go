package config

import "time"

type AppConfig struct {
	TimeZone       string `yaml:"timezone" envconfig:"APP_TIMEZONE"`
	GRPCHealthPort int    `yaml:"grpc-health-port" envconfig:"GRPC_HEALTH_PORT"`
}

// Location falls back to UTC when the zone name is unknown.
func (s *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *AppConfig) HealthPort() int {
	return s.GRPCHealthPort
}
