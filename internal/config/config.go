// Package config loads the storefront configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cart storage backends.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	Auth     AuthConfig     `yaml:"auth"`
	Cart     CartConfig     `yaml:"cart"`
	Mail     MailConfig     `yaml:"mail"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig is optional; an empty DSN disables it.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type CartConfig struct {
	Storage       string        `yaml:"storage"`
	Dir           string        `yaml:"dir"`
	SQLitePath    string        `yaml:"sqlite_path"`
	SaveTimeout   time.Duration `yaml:"save_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type MailConfig struct {
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
	Inbox          string `yaml:"inbox"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	SMTPAddr       string `yaml:"smtp_addr"`
	SMTPUsername   string `yaml:"smtp_username"`
	SMTPPassword   string `yaml:"smtp_password"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		MySQL: MySQLConfig{
			DSN: "user:pass@tcp(mysql:3306)/appdb?parseTime=true",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Cart: CartConfig{
			Storage:       StorageMySQL,
			Dir:           "data/carts",
			SQLitePath:    "data/carts.db",
			SaveTimeout:   5 * time.Second,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Mail: MailConfig{
			From:     "no-reply@storefront.local",
			FromName: "Storefront",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APP_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.MySQL.DSN = v
	}
	if v := os.Getenv("PG_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("CART_STORAGE"); v != "" {
		c.Cart.Storage = strings.ToLower(v)
	}
	if v := os.Getenv("CART_DIR"); v != "" {
		c.Cart.Dir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Cart.SQLitePath = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Mail.SendGridAPIKey = v
	}
	if v := os.Getenv("SMTP_ADDR"); v != "" {
		c.Mail.SMTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (or JWT_SECRET)"))
	}
	switch c.Cart.Storage {
	case StorageFile:
		if c.Cart.Dir == "" {
			errs = append(errs, errors.New("cart.dir is required for file storage"))
		}
	case StorageSQLite:
		if c.Cart.SQLitePath == "" {
			errs = append(errs, errors.New("cart.sqlite_path is required for sqlite storage"))
		}
	case StorageMySQL:
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cart.storage %q", c.Cart.Storage))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
