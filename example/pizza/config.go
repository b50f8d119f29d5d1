package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tbxark/pizzaform/pizza"
	"gopkg.in/yaml.v3"
)

type ModelConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	Model   string `yaml:"model"`
}

type Config struct {
	Model        ModelConfig         `yaml:"model"`
	Language     string              `yaml:"language"`
	LogLevel     string              `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	HistorySize  int                 `yaml:"history_size" validate:"gte=0"`
	SessionTTL   time.Duration       `yaml:"session_ttl" validate:"gte=0"`
	Reservations []pizza.Reservation `yaml:"reservations" validate:"dive"`
}

var errModelNotConfigured = errors.New("model.api_key and model.model are required unless --offline is set")

func defaultConfig() *Config {
	return &Config{
		Language:    "English",
		LogLevel:    "info",
		HistorySize: 50,
		SessionTTL:  30 * time.Minute,
	}
}

// loadConfig reads a YAML config. Environment variables in the file are expanded, so the
// API key can stay out of it. An empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(file))), conf); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return conf, nil
}

func (c *Config) requireModel() error {
	if c.Model.APIKey == "" || c.Model.Model == "" {
		return errModelNotConfigured
	}
	return nil
}

func (c *Config) schedule() pizza.Schedule {
	return pizza.DefaultSchedule().With(c.Reservations...)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
