package config

import (
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvProduction = "production"

type DB struct {
	User            string        `env:"DB_USER" envDefault:"your_db_user"`
	Password        string        `env:"DB_PASSWORD" envDefault:"your_db_password"`
	Name            string        `env:"DB_NAME" envDefault:"your_db_name"`
	Host            string        `env:"DB_HOST" envDefault:"your_db_host"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"8"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"15m"`
}

// DSN builds the postgres connection URL. Values are not validated; a bad
// host or port only shows up when the driver dials.
func (d DB) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted is DSN with the password masked, for logs.
func (d DB) Redacted() string {
	u, err := url.Parse(d.DSN())
	if err != nil {
		return ""
	}
	return u.Redacted()
}

type Server struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Workers         int           `env:"WORKERS" envDefault:"8"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`
	DB          DB
	Server      Server
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
