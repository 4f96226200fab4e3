package config

type TracingConfig struct {
	On    bool   `yaml:"enabled" envconfig:"TRACING_ENABLED"`
	Name  string `yaml:"service-name" envconfig:"TRACING_SERVICE_NAME"`
	Agent string `yaml:"agent-addr" envconfig:"JAEGER_AGENT_ADDR"`
}

func (t *TracingConfig) Enabled() bool {
	return t.On
}

func (t *TracingConfig) ServiceName() string {
	return t.Name
}

func (t *TracingConfig) AgentAddr() string {
	return t.Agent
}
