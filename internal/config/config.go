package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Storage     Storage
	ESPNAPI     ESPNAPI
	MLBAPI      MLBAPI
	Schedule    Schedule
	TelegramBot TelegramBot
}

type Storage struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"badger"`
	Path    string `envconfig:"STORAGE_PATH" default:"./data/favorites"`
	Key     string `envconfig:"STORAGE_KEY" default:"favorites"`
}

type ESPNAPI struct {
	SiteURL string        `envconfig:"ESPN_SITE_URL" default:"https://site.api.espn.com/apis/site/v2/sports"`
	CoreURL string        `envconfig:"ESPN_CORE_URL" default:"https://sports.core.api.espn.com/v2/sports"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type MLBAPI struct {
	BaseURL string        `envconfig:"MLB_API_URL" default:"https://statsapi.mlb.com/api/v1"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Schedule struct {
	RefreshCron string `envconfig:"REFRESH_CRON" default:"*/15 * * * *"`
	Timezone    string `envconfig:"TIMEZONE" default:"Local"`
	CutoffHour  int    `envconfig:"CUTOFF_HOUR" default:"2"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendBadger, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.TelegramBot.Token) == "" {
		return fmt.Errorf("TELEGRAM_TOKEN must not be empty")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if _, err := cron.ParseStandard(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("invalid REFRESH_CRON %q: %w", c.Schedule.RefreshCron, err)
	}
	if c.Schedule.CutoffHour < 0 || c.Schedule.CutoffHour > 23 {
		return fmt.Errorf("CUTOFF_HOUR must be between 0 and 23, got %d", c.Schedule.CutoffHour)
	}
	if _, err := c.Schedule.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the configured timezone.
func (s Schedule) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
