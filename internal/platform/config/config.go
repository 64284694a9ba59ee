package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/Guizzs26/gymkey/internal/modules/pkg/validatorx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported values for Database.Driver
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Host            string        `envconfig:"HOST" default:"0.0.0.0"`
		Port            int           `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
		IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}
	Log struct {
		Level     string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
		Format    string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
		AddSource bool   `envconfig:"LOG_ADD_SOURCE" default:"false"`
	}
	Postgres struct {
		MaxConns          int32         `envconfig:"PGX_MAX_CONNS" default:"20"`
		MinConns          int32         `envconfig:"PGX_MIN_CONNS" default:"2"`
		MaxConnLifetime   time.Duration `envconfig:"PGX_MAX_CONN_LIFETIME" default:"30m"`
		MaxConnIdleTime   time.Duration `envconfig:"PGX_MAX_CONN_IDLE_TIME" default:"5m"`
		HealthCheckPeriod time.Duration `envconfig:"PGX_HEALTH_CHECK_PERIOD" default:"1m"`
		ConnectTimeout    time.Duration `envconfig:"PGX_CONNECT_TIMEOUT" default:"5s"`
	}
	Database struct {
		Driver     string `envconfig:"DB_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`
		URL        string `envconfig:"DATABASE_URL"`
		Host       string `envconfig:"DB_HOST"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER"`
		Password   string `envconfig:"DB_PASSWORD"`
		Name       string `envconfig:"DB_NAME"`
		SSLMode    string `envconfig:"DB_SSL_MODE" default:"disable"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"gymkey.db" validate:"required_if=Driver sqlite"`
	}
	// Credentials is the single pair allowed to request keys. It is read once
	// at startup and never changes for the lifetime of the process
	Credentials struct {
		Username string `envconfig:"USERNAME" required:"true"`
		Password string `envconfig:"PASSWORD" required:"true"`
	}
}

// Load reads env files and then the process environment. Without envFiles the
// default ".env" is read when present; files passed explicitly must exist
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validatorx.NewValidator().Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Database.Driver == DriverPostgres && c.Database.URL == "" && c.Database.Host == "" {
		return errors.New("invalid configuration: DATABASE_URL or DB_HOST is required for the postgres driver")
	}

	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// PostgresDSN returns DATABASE_URL when set, otherwise a URL assembled from the DB_* variables
func (c *Config) PostgresDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": []string{c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}
