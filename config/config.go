package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrConfiguration = errors.New("configuration error")

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	PriceSourceScreener     = "screener"
	PriceSourceAlphaVantage = "alphavantage"
)

type Config struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	CacheBackend  string `env:"CACHE_BACKEND" envDefault:"memory"`
	HTTP          HTTP
	Postgres      Postgres
	Mongo         Mongo
	Redis         Redis
	API           API
	Jobs          Jobs
	Auth          Auth
}

type HTTP struct {
	Port         int           `env:"HTTP_PORT" envDefault:"5000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	GinMode      string        `env:"GIN_MODE" envDefault:"release"`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"portfolio_tracker"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	SSLMode         string `env:"PG_SSL_MODE" envDefault:"disable"`
	ConnAttempts    int    `env:"PG_CONN_ATTEMPTS" envDefault:"10"`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Mongo struct {
	URI     string        `env:"MONGODB_URI" envDefault:""`
	DbName  string        `env:"MONGO_DB_NAME" envDefault:"portfolio_tracker"`
	Timeout time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug           bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout         time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	PriceSource     string        `env:"PRICE_SOURCE" envDefault:"screener"`
	ScreenerApi     ScreenerApi
	AlphaVantageApi AlphaVantageApi
}

type ScreenerApi struct {
	Url string `env:"SCREENER_API_URL" envDefault:"https://www.screener.in"`
}

type AlphaVantageApi struct {
	Url    string `env:"ALPHA_VANTAGE_API_URL" envDefault:"https://www.alphavantage.co"`
	ApiKey string `env:"ALPHA_VANTAGE_API_KEY" envDefault:""`
}

type Jobs struct {
	SweepCron            string        `env:"SWEEP_CRON" envDefault:"0 * * * *"`
	SweepFailureCooldown time.Duration `env:"SWEEP_FAILURE_COOLDOWN" envDefault:"2s"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:""`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

// Validate checks the settings the process can't serve without.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
	case StorageDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: MONGODB_URI is required for storage driver %s", ErrConfiguration, StorageDriverMongo)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrConfiguration, c.StorageDriver)
	}

	if c.CacheBackend != CacheBackendMemory && c.CacheBackend != CacheBackendRedis {
		return fmt.Errorf("%w: unknown CACHE_BACKEND %q", ErrConfiguration, c.CacheBackend)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is empty", ErrConfiguration)
	}

	return nil
}

// ValidatePriceSource checks the lookup settings. Without them prices can't be
// refreshed, stored portfolios can still be served.
func (c *Config) ValidatePriceSource() error {
	switch c.API.PriceSource {
	case PriceSourceScreener:
		if c.API.ScreenerApi.Url == "" {
			return fmt.Errorf("%w: SCREENER_API_URL is empty", ErrConfiguration)
		}
	case PriceSourceAlphaVantage:
		if c.API.AlphaVantageApi.ApiKey == "" {
			return fmt.Errorf("%w: ALPHA_VANTAGE_API_KEY is required for price source %s", ErrConfiguration, PriceSourceAlphaVantage)
		}
	default:
		return fmt.Errorf("%w: unknown PRICE_SOURCE %q", ErrConfiguration, c.API.PriceSource)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: API_TIMEOUT must be positive", ErrConfiguration)
	}

	return nil
}
