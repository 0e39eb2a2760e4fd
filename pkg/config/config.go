// Package config loads notify.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/go-drift/notify/pkg/notify"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the optional config file.
const FileName = "notify.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NOTIFY_"

// EnvFileName is an optional dotenv file next to notify.yaml. Its values
// never replace variables already set in the process environment.
const EnvFileName = ".env"

// Config represents the optional notify.yaml configuration.
type Config struct {
	Log      LogConfig       `yaml:"log"`
	Defaults DefaultsConfig  `yaml:"defaults"`
	Channels []ChannelConfig `yaml:"channels,omitempty"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level,omitempty" env:"LOG_LEVEL"`
	File  string `yaml:"file,omitempty" env:"LOG_FILE"`
}

// DefaultsConfig seeds notifications that do not name a channel.
type DefaultsConfig struct {
	ChannelID   string            `yaml:"channel_id,omitempty" env:"CHANNEL_ID"`
	ChannelName string            `yaml:"channel_name,omitempty" env:"CHANNEL_NAME"`
	Importance  notify.Importance `yaml:"importance,omitempty" env:"IMPORTANCE"`
}

// ChannelConfig is a channel registered at startup.
type ChannelConfig struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Importance  notify.Importance `yaml:"importance,omitempty"`
}

// LoadOptional reads notify.yaml from dir if present. A missing file yields
// an empty Config.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Load reads notify.yaml from dir (if present), applies NOTIFY_* environment
// overrides (including those from dir/.env), fills defaults and validates
// the result.
func Load(dir string) (*Config, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(filepath.Join(dir, EnvFileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", EnvFileName, err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Defaults.ChannelID) == "" {
		cfg.Defaults.ChannelID = notify.DefaultChannelID
	}
	if strings.TrimSpace(cfg.Defaults.ChannelName) == "" {
		cfg.Defaults.ChannelName = notify.DefaultChannelName
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Channels))
	for i, ch := range c.Channels {
		id := strings.TrimSpace(ch.ID)
		if id == "" {
			return fmt.Errorf("channels[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("channels[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		if strings.TrimSpace(ch.Name) == "" {
			return fmt.Errorf("channels[%d]: name is required for %q", i, id)
		}
	}
	return nil
}

// RegistryDefaults returns the defaults to pass to notify.WithDefaults.
func (c *Config) RegistryDefaults() notify.Defaults {
	return notify.Defaults{
		ChannelID:   c.Defaults.ChannelID,
		ChannelName: c.Defaults.ChannelName,
		Importance:  c.Defaults.Importance,
	}
}

// NotifyChannels returns the configured channels in file order.
func (c *Config) NotifyChannels() []notify.Channel {
	out := make([]notify.Channel, 0, len(c.Channels))
	for _, ch := range c.Channels {
		out = append(out, notify.Channel{
			ID:          strings.TrimSpace(ch.ID),
			Name:        ch.Name,
			Description: ch.Description,
			Importance:  ch.Importance,
		})
	}
	return out
}

// UserDir is the per-user config directory, $XDG_CONFIG_HOME/notify.
func UserDir() string {
	return filepath.Join(xdg.ConfigHome, "notify")
}

func exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// FindDir walks up from start looking for notify.yaml, then tries UserDir.
// It returns start when no file is found.
func FindDir(start string) string {
	dir := start
	for {
		if exists(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if user := UserDir(); exists(user) {
		return user
	}
	return start
}
