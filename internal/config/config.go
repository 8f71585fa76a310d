package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	NotificationStorePostgres = "postgres"
	NotificationStoreMongo    = "mongo"
)

var ErrUnknownNotificationStore = errors.New("unknown notification store")

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`

	DatabaseURL   string `env:"DATABASE_URL"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	MongoURL            string        `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"`
	MongoDatabase       string        `env:"MONGODB_DATABASE" envDefault:"warehouse"`
	MongoConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MongoRetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	MongoRetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`

	NotificationStore          string        `env:"NOTIFICATION_STORE" envDefault:"postgres"`
	NotificationThrottle       time.Duration `env:"NOTIFICATION_THROTTLE" envDefault:"3s"`
	NotificationPersistTimeout time.Duration `env:"NOTIFICATION_PERSIST_TIMEOUT" envDefault:"10s"`
	NotificationEmitPerMinute  int           `env:"NOTIFICATION_EMIT_PER_MINUTE" envDefault:"60"`
	NotificationIdleTTL        time.Duration `env:"NOTIFICATION_IDLE_TTL" envDefault:"30m"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	MinIOEndpoint       string        `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIOAccessKey      string        `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey      string        `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOBucket         string        `env:"MINIO_BUCKET" envDefault:"warehouse-reports"`
	MinIOUseSSL         bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	ReportURLExpiry     time.Duration `env:"REPORT_URL_EXPIRY" envDefault:"24h"`
	SummaryCacheTimeout time.Duration `env:"SUMMARY_CACHE_TTL" envDefault:"5m"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@example.com"`

	LocalesPath   string `env:"LOCALES_PATH" envDefault:"locales"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	// .env is optional, the process environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.NotificationStore {
	case NotificationStorePostgres, NotificationStoreMongo:
	default:
		return errors.Join(ErrUnknownNotificationStore, errors.New(c.NotificationStore))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
