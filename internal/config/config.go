package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	GinMode  string `mapstructure:"GIN_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AuthRatePerMinute int `mapstructure:"AUTH_RATE_PER_MINUTE"`
	AuthRateBurst     int `mapstructure:"AUTH_RATE_BURST"`
}

var defaults = map[string]interface{}{
	"HTTP_ADDR":            ":8080",
	"GIN_MODE":             "debug",
	"LOG_LEVEL":            "info",
	"DB_DRIVER":            DriverPostgres,
	"DATABASE_URL":         "",
	"JWT_SECRET":           "",
	"ACCESS_TOKEN_TTL":     "5m",
	"REFRESH_TOKEN_TTL":    "24h",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"AUTH_RATE_PER_MINUTE": 30,
	"AUTH_RATE_BURST":      10,
}

// New loads the configuration from a .env file in dir (when present) and the environment.
// Environment variables win over the file.
func New() (*Config, error) {
	return Load(".")
}

// Load is New with an explicit directory to look for the .env file in.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read .env")
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode into struct")
	}

	if cfg.DBDriver == DriverSQLite && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "fitsocial.db?_foreign_keys=on"
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return errors.Errorf("DB driver is invalid: %s", cfg.DBDriver)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return errors.Errorf("GIN_MODE is invalid: %s", cfg.GinMode)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.AuthRatePerMinute <= 0 || cfg.AuthRateBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	return nil
}
