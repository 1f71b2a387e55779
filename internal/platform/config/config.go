package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseDSN string `yaml:"database_dsn"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	AppName   string `yaml:"app_name"`

	// DevAuth habilita X-Debug-User-ID y desactiva la verificación JWT.
	DevAuth bool `yaml:"dev_auth"`

	Auth   AuthConfig   `yaml:"auth"`
	Notify NotifyConfig `yaml:"notify"`
	SMTP   SMTPConfig   `yaml:"smtp"`

	// Zona horaria usada para "tareas de hoy".
	Timezone string `yaml:"timezone"`
}

type AuthConfig struct {
	AccessTokenSecret  string        `yaml:"access_token_secret"`
	RefreshTokenSecret string        `yaml:"refresh_token_secret"`
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl"`
}

type NotifyConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Schedule     string        `yaml:"schedule"`
	Interval     time.Duration `yaml:"interval"`
	MaxCatchUp   time.Duration `yaml:"max_catch_up"`
	WebhookURL   string        `yaml:"webhook_url"`
	WebhookToken string        `yaml:"webhook_token"` // Bearer opcional
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func (c SMTPConfig) Configured() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.From) != ""
}

func Default() Config {
	return Config{
		Port:      "4000",
		LogLevel:  "info",
		LogFormat: "text",
		AppName:   "pet-care-hub",
		Auth: AuthConfig{
			AccessTokenTTL:  24 * time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
		Notify: NotifyConfig{
			Enabled:    true,
			Schedule:   "@every 1m",
			Interval:   time.Minute,
			MaxCatchUp: time.Hour,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Timezone: "UTC",
	}
}

// Load arma la config: defaults < CONFIG_FILE (yaml, opcional) < env.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.DatabaseDSN, "DB_DSN")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.AppName, "APP_NAME")
	setString(&cfg.Timezone, "TIMEZONE")

	setString(&cfg.Auth.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	setString(&cfg.Auth.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")

	setString(&cfg.Notify.Schedule, "NOTIFY_SCHEDULE")
	setString(&cfg.Notify.WebhookURL, "NOTIFY_WEBHOOK_URL")
	setString(&cfg.Notify.WebhookToken, "NOTIFY_WEBHOOK_TOKEN")

	setString(&cfg.SMTP.Host, "SMTP_HOST")
	setString(&cfg.SMTP.Username, "NOTIFICATIONS_EMAIL")
	setString(&cfg.SMTP.Password, "NOTIFICATIONS_PASSWORD")
	setString(&cfg.SMTP.From, "NOTIFICATIONS_EMAIL")

	var errs []error
	errs = append(errs,
		setBool(&cfg.DevAuth, "DEV_AUTH"),
		setBool(&cfg.Notify.Enabled, "NOTIFY_ENABLED"),
		setDuration(&cfg.Auth.AccessTokenTTL, "ACCESS_TOKEN_TTL"),
		setDuration(&cfg.Auth.RefreshTokenTTL, "REFRESH_TOKEN_TTL"),
		setDuration(&cfg.Notify.Interval, "NOTIFY_INTERVAL"),
		setDuration(&cfg.Notify.MaxCatchUp, "NOTIFY_MAX_CATCH_UP"),
		setInt(&cfg.SMTP.Port, "SMTP_PORT"),
	)
	return errors.Join(errs...)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT is required")
	}
	if !c.DevAuth {
		if strings.TrimSpace(c.Auth.AccessTokenSecret) == "" {
			return errors.New("ACCESS_TOKEN_SECRET is required")
		}
		if strings.TrimSpace(c.Auth.RefreshTokenSecret) == "" {
			return errors.New("REFRESH_TOKEN_SECRET is required")
		}
	}
	if c.Notify.Interval <= 0 {
		return errors.New("notify interval must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location asume que Validate ya pasó.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
