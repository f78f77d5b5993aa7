package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds process-level settings.
type Service struct {
	Environment        string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort            string `envconfig:"SERVICE_API_PORT" default:"8080"`
	ShutdownTimeoutSec int    `envconfig:"SERVICE_SHUTDOWN_TIMEOUT_SEC" default:"5"`
}

// Kafka holds broker settings for both the publisher and the consumer loop.
type Kafka struct {
	BootstrapServers      []string `envconfig:"KAFKA_BOOTSTRAP_SERVERS" default:"kafka:29092"`
	GroupID               string   `envconfig:"KAFKA_GROUP_ID" default:"stats-service"`
	ProducerMaxRetries    int      `envconfig:"KAFKA_PRODUCER_MAX_RETRIES" default:"5"`
	ProducerRetryDelaySec int      `envconfig:"KAFKA_PRODUCER_RETRY_DELAY_SEC" default:"2"`
	ConsumerMaxRetries    int      `envconfig:"KAFKA_CONSUMER_MAX_RETRIES" default:"10"`
	ConsumerRetryDelaySec int      `envconfig:"KAFKA_CONSUMER_RETRY_DELAY_SEC" default:"5"`
}

// ClickHouse holds analytical store settings.
type ClickHouse struct {
	Host               string `envconfig:"CLICKHOUSE_HOST" default:"clickhouse"`
	Port               string `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database           string `envconfig:"CLICKHOUSE_DB" default:"default"`
	User               string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password           string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	MaxRetries         int    `envconfig:"CLICKHOUSE_MAX_RETRIES" default:"5"`
	RetryDelaySec      int    `envconfig:"CLICKHOUSE_RETRY_DELAY_SEC" default:"2"`
	MaxOpenConns       int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns       int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetimeSec int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Config struct {
	Service    Service
	Kafka      Kafka
	ClickHouse ClickHouse
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
