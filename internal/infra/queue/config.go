package queue

import pkgconfig "finsignal/internal/pkg/config"

// Config holds Kafka connection settings for the scoring queue.
type Config struct {
	Broker  string
	Topic   string
	GroupID string
}

// ConfigFromEnv reads queue settings from the environment with defaults
// suitable for local development.
func ConfigFromEnv() Config {
	return Config{
		Broker:  pkgconfig.LoadEnvString("KAFKA_BROKER", "localhost:9092"),
		Topic:   pkgconfig.LoadEnvString("KAFKA_TOPIC", "scoring-batches"),
		GroupID: pkgconfig.LoadEnvString("KAFKA_CONSUMER_GROUP_ID", "finsignal-scorer"),
	}
}
