package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config is the process configuration, resolved from the environment with an
// optional stockroom.yaml in the working directory for local development.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	AlertFrom        string
	AlertTo          string
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPassword     string
	SMTPAuthDisabled bool
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("jwt_secret", "super-secret-key")
	v.SetDefault("redis_addr", "")
	v.SetDefault("smtp_port", "587")

	v.SetConfigName("stockroom")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:         v.GetString("http_addr"),
		DatabaseURL:      v.GetString("database_url"),
		RedisAddr:        v.GetString("redis_addr"),
		JWTSecret:        v.GetString("jwt_secret"),
		AlertFrom:        v.GetString("alert_from"),
		AlertTo:          v.GetString("alert_to"),
		SMTPHost:         v.GetString("smtp_server"),
		SMTPPort:         v.GetString("smtp_port"),
		SMTPUser:         v.GetString("smtp_user"),
		SMTPPassword:     v.GetString("smtp_pass"),
		SMTPAuthDisabled: v.GetString("smtp_auth_disabled") != "",
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("environment variable DATABASE_URL not found")
	}

	return cfg, nil
}
