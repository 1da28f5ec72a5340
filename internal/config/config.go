package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the binaries read from the environment.
// STORE_URL and STORE_KEY are required; Load fails without them.
type Config struct {
	StoreURL string `env:"STORE_URL,required,notEmpty"`
	StoreKey string `env:"STORE_KEY,required,notEmpty"`

	// JWTSecret verifies user sessions and the access key. Without it every
	// token is rejected and the auth probe reports unhealthy.
	JWTSecret string `env:"JWT_SECRET"`

	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	Development bool   `env:"DEV_MODE" envDefault:"false"`

	KafkaBrokers        []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaOrderTopic     string   `env:"KAFKA_ORDER_TOPIC" envDefault:"storefront-orders"`
	KafkaTelemetryTopic string   `env:"KAFKA_TELEMETRY_TOPIC" envDefault:"storefront-telemetry"`
	KafkaGroupID        string   `env:"KAFKA_GROUP_ID" envDefault:"order-notifier"`

	RedisAddr string        `env:"REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	TelemetryEnabled    bool    `env:"TELEMETRY_ENABLED" envDefault:"true"`
	TelemetrySampleRate float64 `env:"TELEMETRY_SAMPLE_RATE" envDefault:"0.1"`
	Environment         string  `env:"APP_ENV" envDefault:"development"`

	OTELEndpoint string `env:"OTEL_ENDPOINT"`

	SMTPHost string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPFrom string `env:"SMTP_FROM" envDefault:"noreply@example.com"`

	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"false"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TelemetrySampleRate < 0 || cfg.TelemetrySampleRate > 1 {
		return nil, fmt.Errorf("TELEMETRY_SAMPLE_RATE must be within [0, 1], got %v", cfg.TelemetrySampleRate)
	}
	return &cfg, nil
}
