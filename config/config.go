package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds the complete configuration for the service
type AppConfig struct {
	Environment     string         `mapstructure:"environment"`
	Port            string         `mapstructure:"port"`
	LogLevel        string         `mapstructure:"log_level"`
	LogFile         string         `mapstructure:"log_file"`
	ShutdownTimeout time.Duration  `mapstructure:"shutdown_timeout"`
	Database        DatabaseConfig `mapstructure:"database"`
	CORS            CORSConfig     `mapstructure:"cors"`
	TLS             TLSConfig      `mapstructure:"tls"`
	Events          EventsConfig   `mapstructure:"events"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	Driver       string `mapstructure:"driver"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type EventsConfig struct {
	Backend       string   `mapstructure:"backend"`
	RedisURL      string   `mapstructure:"redis_url"`
	RedisPassword string   `mapstructure:"redis_password"`
	RedisChannel  string   `mapstructure:"redis_channel"`
	KafkaBrokers  []string `mapstructure:"kafka_brokers"`
	KafkaTopic    string   `mapstructure:"kafka_topic"`
}

// Load reads .env (if present), the optional config file at path and the
// environment, in increasing order of precedence.
func Load(path string) (*AppConfig, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("environment", "debug")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/app.log")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("events.redis_url", "localhost:6379")
	v.SetDefault("events.redis_channel", "games:events")
	v.SetDefault("events.kafka_topic", "games.events")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Lists given as a single comma separated env value
	config.CORS.AllowOrigins = splitList(config.CORS.AllowOrigins)
	config.Events.KafkaBrokers = splitList(config.Events.KafkaBrokers)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Environment names used by existing deployments
var envBindings = []struct{ key, env string }{
	{"environment", "GIN_MODE"},
	{"port", "PORT"},
	{"log_level", "LOG_LEVEL"},
	{"log_file", "LOG_FILE"},
	{"shutdown_timeout", "SHUTDOWN_TIMEOUT"},
	{"database.url", "DATABASE_URL"},
	{"database.driver", "DATABASE_DRIVER"},
	{"database.max_open_conns", "DATABASE_MAX_OPEN_CONNS"},
	{"cors.enabled", "CORS_ENABLED"},
	{"cors.allow_origins", "CORS_ALLOW_ORIGINS"},
	{"tls.enabled", "USE_HTTPS"},
	{"tls.cert_file", "TLS_CERT_FILE"},
	{"tls.key_file", "TLS_KEY_FILE"},
	{"events.backend", "EVENTS_BACKEND"},
	{"events.redis_url", "REDIS_URL"},
	{"events.redis_password", "REDIS_PASSWORD"},
	{"events.redis_channel", "REDIS_CHANNEL"},
	{"events.kafka_brokers", "KAFKA_BROKERS"},
	{"events.kafka_topic", "KAFKA_TOPIC"},
}

func bindEnv(v *viper.Viper) error {
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", b.env, b.key, err)
		}
	}
	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required (DATABASE_URL)")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return errors.New("tls.cert_file and tls.key_file are required when USE_HTTPS is set")
	}
	switch c.Events.Backend {
	case "", "none":
	case "redis":
		if c.Events.RedisURL == "" || c.Events.RedisChannel == "" {
			return errors.New("events.redis_url and events.redis_channel are required for the redis backend")
		}
	case "kafka":
		if len(c.Events.KafkaBrokers) == 0 || c.Events.KafkaTopic == "" {
			return errors.New("events.kafka_brokers and events.kafka_topic are required for the kafka backend")
		}
	default:
		return fmt.Errorf("events.backend %q is not supported", c.Events.Backend)
	}
	return nil
}

// Release reports whether gin runs in release mode.
func (c *AppConfig) Release() bool { return c.Environment == "release" }

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string { return ":" + c.Port }
