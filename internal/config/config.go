package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string `yaml:"token"`
	Username    string `yaml:"username"`
	Workers     int    `yaml:"workers"` // polling workers
	WebAppURL   string `yaml:"webapp_url"`
	AdminChatID int64  `yaml:"admin_chat_id"` // optional audit channel
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HealthConfig struct {
	Port int `yaml:"port"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // host:port or redis:// url; empty -> in-memory session store
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FromName string `yaml:"from_name"`
	Security string `yaml:"security"` // starttls|tls|none
}

// Configured reports whether the mail transport has usable credentials.
// An unconfigured transport degrades email delivery instead of crashing.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	BaseURL   string        `yaml:"base_url"` // document host root for catalog filenames
}

type ContactsConfig struct {
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	Hours string `yaml:"hours"`
}

// AssetConfig optionally overrides the built-in catalog.
type AssetConfig struct {
	Key         string `yaml:"key"`
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Documents   int    `yaml:"documents"`
	Processing  string `yaml:"processing"`
	Filename    string `yaml:"filename"`
	SourceURL   string `yaml:"source_url"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Health   HealthConfig   `yaml:"health"`
	Redis    RedisConfig    `yaml:"redis"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Contacts ContactsConfig `yaml:"contacts"`
	Catalog  []AssetConfig  `yaml:"catalog"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 8080
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.Security == "" {
		cfg.SMTP.Security = "starttls"
	}
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.UserAgent == "" {
		// some document hosts reject blank/default agents
		cfg.Fetch.UserAgent = "docs-bank-bot/1.0"
	}

	// Minimal validation: only the bot credential is fatal at startup.
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
