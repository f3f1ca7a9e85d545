// File: internal/config/config.go
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

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type AdminConfig struct {
	APIKey     string        `yaml:"api_key"` // exchanged for a session token on login
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// WireConfig carries the static bank instruction fields printed on every
// wire payload plus the shared secret the verification webhook checks.
// Placeholder values must come from deployment config, never source.
type WireConfig struct {
	BankName      string `yaml:"bank_name"`
	AccountName   string `yaml:"account_name"`
	RoutingNumber string `yaml:"routing_number"`
	AccountNumber string `yaml:"account_number"`
	SwiftCode     string `yaml:"swift_code"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type TierPriceConfig struct {
	Monthly     float64 `yaml:"monthly"`
	Annual      float64 `yaml:"annual"`
	Description string  `yaml:"description"`
}

type TiersConfig struct {
	Founder         TierPriceConfig `yaml:"founder"`
	Scaler          TierPriceConfig `yaml:"scaler"`
	Owner           TierPriceConfig `yaml:"owner"`
	InnerCircleFlat float64         `yaml:"inner_circle_flat"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type SchedulerConfig struct {
	StallSweepAt   string `yaml:"stall_sweep_at"`   // "HH:MM" UTC
	AbandonSweepAt string `yaml:"abandon_sweep_at"` // "HH:MM" UTC
}

type AIConfig struct {
	OpenAIKey    string `yaml:"openai_key"`
	DefaultModel string `yaml:"default_model"`
	SystemPrompt string `yaml:"system_prompt"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Wire      WireConfig      `yaml:"wire"`
	Tiers     TiersConfig     `yaml:"tiers"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	AI        AIConfig        `yaml:"ai"`

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
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Scheduler.StallSweepAt == "" {
		cfg.Scheduler.StallSweepAt = "09:00"
	}
	if cfg.Scheduler.AbandonSweepAt == "" {
		cfg.Scheduler.AbandonSweepAt = "10:00"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Wire.AccountNumber == "" || cfg.Wire.RoutingNumber == "" {
		return nil, errors.New("wire bank instruction fields are required")
	}
	if cfg.Tiers.Founder.Annual <= 0 || cfg.Tiers.Scaler.Annual <= 0 || cfg.Tiers.Owner.Annual <= 0 {
		return nil, errors.New("tiers price table is required")
	}
	if _, err := ParseClock(cfg.Scheduler.StallSweepAt); err != nil {
		return nil, fmt.Errorf("scheduler.stall_sweep_at: %w", err)
	}
	if _, err := ParseClock(cfg.Scheduler.AbandonSweepAt); err != nil {
		return nil, fmt.Errorf("scheduler.abandon_sweep_at: %w", err)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// ParseClock validates an "HH:MM" UTC time-of-day string and returns the
// offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
