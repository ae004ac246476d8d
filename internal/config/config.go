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

type BotConfig struct {
	Token    string `yaml:"token"`
	Mode     string `yaml:"mode"` // polling | webhook (future)
	Username string `yaml:"username"`
	Workers  int    `yaml:"workers"` // polling workers
}

type ChannelConfig struct {
	ID  string `yaml:"id"`  // chat id or @handle the bot posts to
	Tag string `yaml:"tag"` // public handle shown in rendered posts
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SchedulerConfig struct {
	Interval       time.Duration `yaml:"interval"`        // publish every N (default 4h)
	InitialDelay   time.Duration `yaml:"initial_delay"`   // wait before the first publish (default 5m)
	PublishTimeout time.Duration `yaml:"publish_timeout"` // per-send deadline (default 30s)
}

type ReferralConfig struct {
	RewardPoints  int64   `yaml:"reward_points"`  // points per successful invite
	RewardDollars float64 `yaml:"reward_dollars"` // display-only projected value per invite
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Channel   ChannelConfig   `yaml:"channel"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Referral  ReferralConfig  `yaml:"referral"`

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
	if cfg.Scheduler.Interval <= 0 {
		cfg.Scheduler.Interval = 4 * time.Hour
	}
	if cfg.Scheduler.InitialDelay <= 0 {
		cfg.Scheduler.InitialDelay = 5 * time.Minute
	}
	if cfg.Scheduler.PublishTimeout <= 0 {
		cfg.Scheduler.PublishTimeout = 30 * time.Second
	}
	if cfg.Referral.RewardPoints <= 0 {
		cfg.Referral.RewardPoints = 100
	}
	if cfg.Referral.RewardDollars <= 0 {
		cfg.Referral.RewardDollars = 5
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8080
	}

	// Minimal validation. Dev mode runs on the noop adapter, so the token
	// is only required for real polling.
	if cfg.Bot.Token == "" && !dev {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Channel.ID == "" {
		return nil, errors.New("channel.id is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
