package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/usgs-station-import/internal/domain"
	"github.com/go-playground/validator/v10"
)

const defaultKafkaBatchSize = 100

// Config holds all import settings, populated from environment variables.
// With nothing set, a run fetches the fixed USGS station list and writes the
// dated station module into the working directory.
type Config struct {
	StationsURL  string        `validate:"required,url"`
	OutputDir    string        `validate:"required"`
	FetchTimeout time.Duration // 0 means no timeout
	LogLevel     string        // unknown levels fall back to info
	LogFormat    string        // "text", anything else is JSON

	// Optional Kafka station sink; disabled when KafkaBrokers is empty.
	KafkaBrokers   []string
	KafkaTopic     string `validate:"required_with=KafkaBrokers"`
	KafkaBatchSize int    `validate:"gt=0,lte=10000"`

	// Optional SQLite station catalog; disabled when empty.
	SQLitePath string

	// Prometheus textfile written at the end of a run; disabled when empty.
	MetricsTextfile string
}

// KafkaEnabled reports whether accepted stations are also published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "0s"))
	if err != nil || fetchTimeout < 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	// Kafka settings are only read when the sink is enabled.
	var brokers []string
	batchSize := defaultKafkaBatchSize
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
		batchSize, err = strconv.Atoi(sharedcfg.EnvOrDefault("KAFKA_BATCH_SIZE", strconv.Itoa(defaultKafkaBatchSize)))
		if err != nil {
			return nil, errors.New("invalid KAFKA_BATCH_SIZE")
		}
	}

	cfg := &Config{
		StationsURL:     sharedcfg.EnvOrDefault("USGS_STATIONS_URL", domain.StationListURL),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		FetchTimeout:    fetchTimeout,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "usgs-stations"),
		KafkaBatchSize:  batchSize,
		SQLitePath:      os.Getenv("SQLITE_PATH"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
