package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string `mapstructure:"-"`        // Telegram API token loaded from environment
	Source           Source `mapstructure:"source"`   // remote question source
	HTTP             HTTP   `mapstructure:"http"`     // web front-end and metrics listener
	DB               DB     `mapstructure:"database"` // optional question archive
}

// Source describes the remote trivia API.
type Source struct {
	URL     string        `mapstructure:"url"`     // endpoint without query string
	Timeout time.Duration `mapstructure:"timeout"` // per-request timeout
}

// HTTP contains listener settings.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
// Secrets are optional here; binaries that need them check for themselves.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("source.url", "https://opentdb.com/api.php")
	v.SetDefault("source.timeout", "10s")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30m")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.Source.URL == "" {
		return nil, fmt.Errorf("source.url must not be empty")
	}
	if cfg.Source.Timeout <= 0 {
		return nil, fmt.Errorf("source.timeout must be positive, got %s", cfg.Source.Timeout)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	return &cfg, nil
}
