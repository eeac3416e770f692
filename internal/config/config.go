package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultEnv             = "development"
	defaultHTTPHost        = "0.0.0.0"
	defaultHTTPPort        = 8080
	defaultRedisAddr       = "localhost:6379"
	defaultRedisDB         = 0
	defaultCacheTTLSeconds = 30
	defaultRefreshInterval = time.Minute
	defaultPublishInterval = 6 * time.Hour
	defaultQuoteTimeout    = 5 * time.Second
	defaultTickExchange    = "commodity.ticks"
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env       string
	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
	Market    MarketConfig
	Broker    BrokerConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// PostgresConfig stores database connection parameters.
type PostgresConfig struct {
	DSN string
}

// RedisConfig stores Redis connection parameters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig stores cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

// SchedulerConfig controls the price refresh loop and oracle cadence.
type SchedulerConfig struct {
	RefreshInterval time.Duration
	PublishInterval time.Duration
}

// MarketConfig stores venue quote endpoints.
type MarketConfig struct {
	JupiterURL   string
	QuoteTimeout time.Duration
}

// BrokerConfig stores RabbitMQ publishing parameters. An empty URL disables
// the publisher.
type BrokerConfig struct {
	URL          string
	TickExchange string
}

func (b BrokerConfig) Enabled() bool {
	return b.URL != ""
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	host := getString("HTTP_HOST", defaultHTTPHost)
	port, err := getInt("HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}

	redisDB, err := getInt("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}

	refreshInterval, err := getDuration("REFRESH_INTERVAL", defaultRefreshInterval)
	if err != nil {
		return nil, fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
	}

	publishInterval, err := getDuration("ORACLE_PUBLISH_INTERVAL", defaultPublishInterval)
	if err != nil {
		return nil, fmt.Errorf("parse ORACLE_PUBLISH_INTERVAL: %w", err)
	}

	quoteTimeout, err := getDuration("QUOTE_TIMEOUT", defaultQuoteTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse QUOTE_TIMEOUT: %w", err)
	}

	return &Config{
		Env:  getString("APP_ENV", defaultEnv),
		HTTP: HTTPConfig{Host: host, Port: port},
		Postgres: PostgresConfig{
			DSN: dsn,
		},
		Redis: RedisConfig{
			Addr:     getString("REDIS_ADDR", defaultRedisAddr),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: cacheTTL,
		},
		Scheduler: SchedulerConfig{
			RefreshInterval: refreshInterval,
			PublishInterval: publishInterval,
		},
		Market: MarketConfig{
			JupiterURL:   getString("JUPITER_QUOTE_URL", "https://quote-api.jup.ag/v6"),
			QuoteTimeout: quoteTimeout,
		},
		Broker: BrokerConfig{
			URL:          os.Getenv("RABBITMQ_URL"),
			TickExchange: getString("RABBITMQ_TICK_EXCHANGE", defaultTickExchange),
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to duration: %w", key, value, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return parsed, nil
}
