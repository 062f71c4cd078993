package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	Tickets  TicketsConfig  `json:"tickets"`
	Database DatabaseConfig `json:"database"`
	Web      WebConfig      `json:"web"`
}

type DiscordConfig struct {
	Token  string `json:"token"`
	Prefix string `json:"prefix"`
}

type TicketsConfig struct {
	StaffRole      string `json:"staff_role"`
	LogChannel     string `json:"log_channel"`
	PanelChannel   string `json:"panel_channel"`
	MaxOpenPerUser int    `json:"max_open_per_user"`

	// Categories maps a ticket type (e.g. "support") to the Discord
	// category the ticket channel is created under.
	Categories map[string]string `json:"categories"`

	ReconcileSchedule string `json:"reconcile_schedule"`
	SettingsFile      string `json:"settings_file"`
	LangFile          string `json:"lang_file"`
}

type DatabaseConfig struct {
	Driver  string        `json:"driver"`
	SQLite  SQLiteConfig  `json:"sqlite"`
	MongoDB MongoDBConfig `json:"mongodb"`
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type WebConfig struct {
	Port int `json:"port"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Discord.Prefix == "" {
		cfg.Discord.Prefix = "#"
	}
	if cfg.Tickets.MaxOpenPerUser <= 0 {
		cfg.Tickets.MaxOpenPerUser = 1
	}
	if cfg.Tickets.ReconcileSchedule == "" {
		cfg.Tickets.ReconcileSchedule = "@every 15m"
	}
	if cfg.Tickets.SettingsFile == "" {
		cfg.Tickets.SettingsFile = "data/panel_settings.json"
	}
	if cfg.Tickets.LangFile == "" {
		cfg.Tickets.LangFile = "lang.yml"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/tickets.db"
	}
	return &cfg, nil
}

// Validate rejects configurations the bot cannot run with. The token may
// arrive from the environment after LoadConfig, so callers validate last.
func (cfg *Config) Validate() error {
	if cfg.Discord.Token == "" {
		return fmt.Errorf("no bot token: set discord.token in config.json or DISCORD_TOKEN in the environment")
	}
	if cfg.Tickets.StaffRole == "" {
		return fmt.Errorf("tickets.staff_role must be set")
	}
	if cfg.Tickets.LogChannel == "" {
		return fmt.Errorf("tickets.log_channel must be set")
	}
	if len(cfg.Tickets.Categories) == 0 {
		return fmt.Errorf("tickets.categories must map at least one ticket type to a Discord category ID")
	}
	for typ, id := range cfg.Tickets.Categories {
		if id == "" {
			return fmt.Errorf("tickets.categories[%q] has an empty Discord category ID", typ)
		}
	}
	return nil
}
