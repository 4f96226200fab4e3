package config

type PostgresConfig struct {
	Hostname string `yaml:"host" envconfig:"POSTGRES_HOST"`
	PortNum  int    `yaml:"port" envconfig:"POSTGRES_PORT"`
	Db       string `yaml:"db" envconfig:"POSTGRES_DB"`
	User     string `yaml:"username" envconfig:"POSTGRES_USER"`
	Pswd     string `yaml:"password" envconfig:"POSTGRES_PASSWORD"`
	SSL      string `yaml:"sslmode" envconfig:"POSTGRES_SSLMODE"`
}

func (s *PostgresConfig) Host() string {
	return s.Hostname
}

func (s *PostgresConfig) Port() int {
	return s.PortNum
}

func (s *PostgresConfig) Database() string {
	return s.Db
}

func (s *PostgresConfig) Username() string {
	return s.User
}

func (s *PostgresConfig) Password() string {
	return s.Pswd
}

func (s *PostgresConfig) SSLMode() string {
	return s.SSL
}
