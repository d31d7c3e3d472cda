package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/config"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/database"
)

// Engine selection values.
const (
	EngineElasticsearch = "elasticsearch"
	EngineMemory        = "memory"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010"`

	// Elasticsearch. Index names are "{prefix}_{entity}".
	ElasticsearchURL string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	IndexPrefix      string `env:"SEARCH_INDEX_PREFIX" envDefault:"ecommerce"`

	// Search engine selection (elasticsearch or memory)
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Product service URL for reindex fetching
	ProductServiceURL string `env:"PRODUCT_SERVICE_URL" envDefault:"http://localhost:8080"`

	// Kafka
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	ConsumerGroup string   `env:"SEARCH_CONSUMER_GROUP" envDefault:"search-service"`

	// Redis (result cache + shared idempotency). Disabled falls back to
	// in-process stores.
	RedisEnabled  bool   `env:"SEARCH_REDIS_ENABLED" envDefault:"true"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"SEARCH_REDIS_DB" envDefault:"2"`

	// PostgreSQL reference tables for projection-time denormalization.
	// Disabled degrades lookups to IDs.
	PostgresEnabled  bool   `env:"SEARCH_POSTGRES_ENABLED" envDefault:"false"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"ecommerce"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"ecommerce_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"ecommerce"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Bearer token guarding the admin endpoints. Empty leaves them open,
	// which is only acceptable behind the gateway.
	AdminToken string `env:"SEARCH_ADMIN_TOKEN" envDefault:""`

	// Idempotency window for event deduplication.
	IdempotencyTTL time.Duration `env:"SEARCH_IDEMPOTENCY_TTL" envDefault:"24h"`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`

	// pprof exposure (development only)
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SearchEngine != EngineElasticsearch && c.SearchEngine != EngineMemory {
		return fmt.Errorf("invalid search engine: %q", c.SearchEngine)
	}
	if strings.TrimSpace(c.IndexPrefix) == "" {
		return fmt.Errorf("index prefix must not be empty")
	}
	return nil
}

// Redis returns the Redis connection settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Postgres returns the PostgreSQL connection settings.
func (c *Config) Postgres() database.PostgresConfig {
	cfg := database.DefaultPostgresConfig()
	cfg.Host = c.PostgresHost
	cfg.Port = c.PostgresPort
	cfg.User = c.PostgresUser
	cfg.Password = c.PostgresPassword
	cfg.DBName = c.PostgresDB
	cfg.SSLMode = c.PostgresSSLMode
	return cfg
}
