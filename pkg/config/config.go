package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "campusbites"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StateBackendFile  = "file"
	StateBackendRedis = "redis"
)

type Config struct {
	App      AppConfig
	Services ServicesConfig
	Realtime RealtimeConfig
	State    StateConfig
	Routing  RoutingConfig
	Listings ListingsConfig
	HTTP     HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAMPUSBITES_APP_ENV" default:"dev" validate:"oneof=dev prod"`
	Port         string `envconfig:"CAMPUSBITES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CAMPUSBITES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSBITES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ServicesConfig holds the base URLs of the backend collaborators. They all
// sit behind the platform gateway in deployed environments, so the defaults
// share one origin.
type ServicesConfig struct {
	Customer   string `envconfig:"CAMPUSBITES_CUSTOMER_URL" default:"http://localhost:8000/api/customer"`
	Picker     string `envconfig:"CAMPUSBITES_PICKER_URL" default:"http://localhost:8000/api/picker"`
	Stall      string `envconfig:"CAMPUSBITES_STALL_URL" default:"http://localhost:8000/api/stall"`
	Order      string `envconfig:"CAMPUSBITES_ORDER_URL" default:"http://localhost:8000/api/order"`
	Payment    string `envconfig:"CAMPUSBITES_PAYMENT_URL" default:"http://localhost:8000/api/payment"`
	Credit     string `envconfig:"CAMPUSBITES_CREDIT_URL" default:"http://localhost:8000/api/credit"`
	Assignment string `envconfig:"CAMPUSBITES_ASSIGN_PICKER_URL" default:"http://localhost:8000/api/assign-picker"`
}

type RealtimeConfig struct {
	Endpoint     string        `envconfig:"CAMPUSBITES_REALTIME_ENDPOINT" default:"ws://localhost:8000/api/assign-picker/ws"`
	WriteTimeout time.Duration `envconfig:"CAMPUSBITES_REALTIME_WRITE_TIMEOUT" default:"5s"`
}

type StateConfig struct {
	Backend string `envconfig:"CAMPUSBITES_STATE_BACKEND" default:"file" validate:"oneof=file redis"`
	Dir     string `envconfig:"CAMPUSBITES_STATE_DIR" default:".campusbites"`

	RedisURL          string        `envconfig:"CAMPUSBITES_REDIS_URL"`
	RedisPoolSize     int           `envconfig:"CAMPUSBITES_REDIS_POOL_SIZE" default:"5"`
	RedisDialTimeout  time.Duration `envconfig:"CAMPUSBITES_REDIS_DIAL_TIMEOUT" default:"5s"`
	RedisReadTimeout  time.Duration `envconfig:"CAMPUSBITES_REDIS_READ_TIMEOUT" default:"5s"`
	RedisWriteTimeout time.Duration `envconfig:"CAMPUSBITES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type RoutingConfig struct {
	APIKey  string `envconfig:"CAMPUSBITES_ROUTING_API_KEY"`
	BaseURL string `envconfig:"CAMPUSBITES_ROUTING_BASE_URL"`
}

// ListingsConfig points at the externally hosted surplus-food catalog. The
// feature stays off until a base URL is configured.
type ListingsConfig struct {
	BaseURL string `envconfig:"CAMPUSBITES_LISTINGS_BASE_URL"`
}

type HTTPConfig struct {
	Timeout       time.Duration `envconfig:"CAMPUSBITES_HTTP_TIMEOUT" default:"10s"`
	RetryAttempts uint64        `envconfig:"CAMPUSBITES_HTTP_RETRY_ATTEMPTS" default:"3"`
	RetryBaseWait time.Duration `envconfig:"CAMPUSBITES_HTTP_RETRY_BASE_WAIT" default:"200ms"`
}
