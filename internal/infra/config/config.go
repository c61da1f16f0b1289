package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Snapshot backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Queue backends.
const (
	QueueRedis    = "redis"
	QueueRabbitMQ = "rabbitmq"
)

// AppConfig describes the configuration shared by all binaries.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
	SnapshotID  string `envconfig:"SNAPSHOT_ID" default:"default"`

	Snapshot struct {
		Backend  string        `envconfig:"SNAPSHOT_BACKEND" default:"sqlite"`
		CacheTTL time.Duration `envconfig:"SNAPSHOT_CACHE_TTL" default:"10m"`
	} `envconfig:""`

	SQLite struct {
		Path string `envconfig:"SQLITE_PATH" default:"highlights.db"`
	} `envconfig:""`

	Postgres struct {
		DSN      string `envconfig:"PG_DSN"`
		MaxConns int32  `envconfig:"PG_MAX_CONNS" default:"5"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Queue struct {
		Backend   string `envconfig:"QUEUE_BACKEND" default:"redis"`
		Key       string `envconfig:"ANNOUNCE_QUEUE_KEY" default:"announce_jobs"`
		RabbitURL string `envconfig:"RABBIT_URL"`
	} `envconfig:""`

	Telegram struct {
		Token   string `envconfig:"TG_BOT_TOKEN"`
		ChatID  int64  `envconfig:"TG_CHAT_ID"`
		// Webhook switches the bot gateway from long polling to POST /bot/webhook.
		Webhook bool   `envconfig:"TG_WEBHOOK" default:"false"`
	} `envconfig:""`

	Catalog struct {
		DefaultMaxPrice float64 `envconfig:"CATALOG_DEFAULT_MAX_PRICE" default:"100"`
		SeedFile        string  `envconfig:"CATALOG_SEED_FILE"`
	} `envconfig:""`

	Announce struct {
		At string `envconfig:"ANNOUNCE_AT" default:"09:00"`
		TZ string `envconfig:"TZ" default:"America/Sao_Paulo"`
	} `envconfig:""`
}

// Load reads the configuration from the environment.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
