package configs

// Kafka configures event delivery. Without brokers events are only logged.
type Kafka struct {
	Brokers     []string `env:"BROKERS" envSeparator:","`
	TopicPrefix string   `env:"TOPIC_PREFIX" envDefault:"crowdfund."`
}
