package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	HTTPPort           string        `envconfig:"HTTP_PORT" default:"8090"`
	Env                string        `envconfig:"ENV" default:"development"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxRequestBodySize int64         `envconfig:"MAX_REQUEST_BODY_SIZE" default:"1048576"`

	OrderAPIURL   string `envconfig:"ORDER_API_URL" default:"http://localhost:8080/api"`
	ProductAPIURL string `envconfig:"PRODUCT_API_URL" default:"http://localhost:8080/api"`
	// applies to catalog reads only; checkout never gets a client timeout
	UpstreamTimeout    time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"0s"`
	BreakerMaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`

	CartStorage      string        `envconfig:"CART_STORAGE" default:"sqlite"`
	CartDBPath       string        `envconfig:"CART_DB_PATH" default:"./storefront-cart.db"`
	CartStorageKey   string        `envconfig:"CART_STORAGE_KEY" default:"cart-storage"`
	StorefrontOrigin string        `envconfig:"STOREFRONT_ORIGIN" default:"http://localhost:5173"`
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	RedisTTL         time.Duration `envconfig:"REDIS_TTL" default:"0s"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.CartStorage {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("CART_STORAGE must be one of sqlite, redis, memory; got %q", c.CartStorage))
	}
	if c.CartStorage == StorageSQLite && c.CartDBPath == "" {
		errs = append(errs, errors.New("CART_DB_PATH is required for sqlite storage"))
	}
	if c.CartStorageKey == "" {
		errs = append(errs, errors.New("CART_STORAGE_KEY is required"))
	}
	for name, raw := range map[string]string{"ORDER_API_URL": c.OrderAPIURL, "PRODUCT_API_URL": c.ProductAPIURL} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute url; got %q", name, raw))
		}
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.UpstreamTimeout < 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must not be negative"))
	}
	if c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// ScopedCartKey scopes the fixed cart key to the storefront origin, so two
// storefronts sharing one store keep separate carts.
func (c *Config) ScopedCartKey() string {
	return c.StorefrontOrigin + "|" + c.CartStorageKey
}
