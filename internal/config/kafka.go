package config

type KafkaConfig struct {
	BrokerList []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
	Consumer   string   `yaml:"consumer-group" envconfig:"KAFKA_CONSUMER_GROUP"`
	RecTopic   string   `yaml:"expenses-topic" envconfig:"KAFKA_EXPENSES_TOPIC"`
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) ConsumerGroup() string {
	return s.Consumer
}

func (s *KafkaConfig) ExpensesTopic() string {
	return s.RecTopic
}
