package config

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"
)

type TelegramConfig struct {
	ApiToken    string `yaml:"token" envconfig:"TELEGRAM_TOKEN"`
	Mode        string `yaml:"run-mode" envconfig:"TELEGRAM_RUN_MODE"`
	PollTimeout int    `yaml:"poll-timeout-seconds" envconfig:"TELEGRAM_POLL_TIMEOUT"`
}

func (t *TelegramConfig) Token() string {
	return t.ApiToken
}

func (t *TelegramConfig) RunMode() string {
	return t.Mode
}

func (t *TelegramConfig) PollTimeoutSeconds() int {
	return t.PollTimeout
}
