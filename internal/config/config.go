// Package config загружает настройки приложения из YAML-файла.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string `yaml:"addr"`
	HTMLDir   string `yaml:"html_dir"`
	StaticDir string `yaml:"static_dir"`

	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Login    LoginConfig    `yaml:"login"`
	Log      LogConfig      `yaml:"log"`

	PostsPerPage int `yaml:"posts_per_page"`
	PasswordCost int `yaml:"password_cost"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 или sqlite
	DSN    string `yaml:"dsn"`
}

type SessionConfig struct {
	Duration        time.Duration `yaml:"duration"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	SecureCookie    bool          `yaml:"secure_cookie"`
}

// LoginConfig ограничивает частоту попыток входа с одного адреса
type LoginConfig struct {
	RatePerMinute int `yaml:"rate_per_minute"`
	Burst         int `yaml:"burst"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default возвращает настройки по умолчанию
func Default() *Config {
	return &Config{
		Addr:      ":4000",
		HTMLDir:   "./ui/html",
		StaticDir: "./ui/static",
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "./yatube.db",
		},
		Session: SessionConfig{
			Duration:        24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Login: LoginConfig{
			RatePerMinute: 10,
			Burst:         5,
		},
		Log: LogConfig{
			Level: "info",
		},
		PostsPerPage: 10,
		PasswordCost: 12,
	}
}

// Load читает файл поверх значений по умолчанию. Пустой путь - только умолчания.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr не может быть пустым"))
	}
	if c.Database.Driver != "sqlite3" && c.Database.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("неизвестный драйвер базы данных %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn не может быть пустым"))
	}
	if c.PostsPerPage < 1 {
		errs = append(errs, errors.New("posts_per_page должен быть положительным"))
	}
	if c.Session.Duration <= 0 {
		errs = append(errs, errors.New("session.duration должен быть положительным"))
	}
	if c.Session.CleanupInterval <= 0 {
		errs = append(errs, errors.New("session.cleanup_interval должен быть положительным"))
	}
	if c.Login.RatePerMinute < 1 || c.Login.Burst < 1 {
		errs = append(errs, errors.New("login.rate_per_minute и login.burst должны быть положительными"))
	}

	return errors.Join(errs...)
}
