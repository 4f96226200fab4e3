package config

type WebhookConfig struct {
	ListenAddr string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	UpdatePath string `yaml:"path" envconfig:"WEBHOOK_PATH"`
}

func (w *WebhookConfig) Listen() string {
	return w.ListenAddr
}

func (w *WebhookConfig) Path() string {
	return w.UpdatePath
}
