// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration понимает в yaml и строки вида "1h30m", и целые наносекунды -
// сам yaml.v3 строковые длительности не разбирает
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("неверная длительность %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("неверная длительность: %w", err)
	}
	*d = Duration(ns)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Auth       AuthConfig       `yaml:"auth"`
	Tasks      TasksConfig      `yaml:"tasks"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	URL            string   `yaml:"url"`
	MaxConnections int      `yaml:"max_connections"`
	MinConnections int      `yaml:"min_connections"`
	IdleTimeout    Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" или "inmemory"
}

type AuthConfig struct {
	AccessSecret  string   `yaml:"access_secret"`
	RefreshSecret string   `yaml:"refresh_secret"` // если пусто - берём access_secret
	AccessTTL     Duration `yaml:"access_ttl"`
	RefreshTTL    Duration `yaml:"refresh_ttl"`
}

type TasksConfig struct {
	// набор статусов зависит от ревизии схемы, поэтому он в конфиге
	Statuses        []string `yaml:"statuses"`
	DefaultStatus   string   `yaml:"default_status"`
	CompletedStatus string   `yaml:"completed_status"`
	CanceledStatus  string   `yaml:"canceled_status"`
	DefaultLimit    int      `yaml:"default_limit"`
	MaxLimit        int      `yaml:"max_limit"`
}

type WorkerConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Interval  Duration `yaml:"interval"`
	BatchSize int      `yaml:"batch_size"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	var cfg Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	cfg.applyDefaults()

	if cfg.Auth.AccessSecret == "" {
		return nil, fmt.Errorf("auth.access_secret обязателен")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Auth.RefreshSecret == "" {
		c.Auth.RefreshSecret = c.Auth.AccessSecret
	}
	if c.Auth.AccessTTL == 0 {
		c.Auth.AccessTTL = Duration(time.Hour)
	}
	if c.Auth.RefreshTTL == 0 {
		c.Auth.RefreshTTL = Duration(7 * 24 * time.Hour)
	}
	if len(c.Tasks.Statuses) == 0 {
		c.Tasks.Statuses = []string{"pending", "processing", "completed", "canceled"}
	}
	if c.Tasks.DefaultStatus == "" {
		c.Tasks.DefaultStatus = "pending"
	}
	if c.Tasks.CompletedStatus == "" {
		c.Tasks.CompletedStatus = "completed"
	}
	if c.Tasks.DefaultLimit == 0 {
		c.Tasks.DefaultLimit = 20
	}
	if c.Tasks.MaxLimit == 0 {
		c.Tasks.MaxLimit = 100
	}
	if c.Worker.Interval == 0 {
		c.Worker.Interval = Duration(5 * time.Minute)
	}
	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 100
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
