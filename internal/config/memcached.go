package config

type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts" envconfig:"MEMCACHED_HOSTS"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}
