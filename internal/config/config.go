package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/render"
	"github.com/aretw0/dagview/pkg/view"
	"gopkg.in/yaml.v3"
)

// Config is the dashboard server configuration.
type Config struct {
	Addr          string              `yaml:"addr" json:"addr" toml:"addr"`
	Log           LogConfig           `yaml:"log" json:"log" toml:"log"`
	Redis         RedisConfig         `yaml:"redis" json:"redis" toml:"redis"`
	StoreDir      string              `yaml:"store_dir" json:"store_dir" toml:"store_dir"` // file store when Redis is off
	Layout        domain.LayoutConfig `yaml:"layout" json:"layout" toml:"layout"`
	FocusModifier string              `yaml:"focus_modifier" json:"focus_modifier" toml:"focus_modifier"`
	ExportName    string              `yaml:"export_name" json:"export_name" toml:"export_name"`
	MountBuffer   int                 `yaml:"mount_buffer" json:"mount_buffer" toml:"mount_buffer"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" toml:"level"`
	Format string `yaml:"format" json:"format" toml:"format"` // "text" or "json"
}

// RedisConfig enables the Redis store and locker when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr" toml:"addr"`
	Password string `yaml:"password" json:"password" toml:"password"`
	DB       int    `yaml:"db" json:"db" toml:"db"`
	Prefix   string `yaml:"prefix" json:"prefix" toml:"prefix"`
	TTL      string `yaml:"ttl" json:"ttl" toml:"ttl"` // e.g. "24h"; empty never expires
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// TTLDuration parses TTL.
func (r RedisConfig) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", r.TTL, err)
	}
	return d, nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		Log:           LogConfig{Level: "info", Format: "text"},
		Redis:         RedisConfig{Prefix: "dagview:view:"},
		Layout:        domain.DefaultLayout(),
		FocusModifier: render.DefaultFocusModifier,
		ExportName:    render.DefaultExportName,
		MountBuffer:   view.DefaultMountBuffer,
	}
}

// Load reads a configuration file (YAML, TOML or JSON by extension) over the
// defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values a file may have set wrong.
func (c *Config) Validate() error {
	if _, err := c.Redis.TTLDuration(); err != nil {
		return err
	}
	if c.MountBuffer < 0 {
		return fmt.Errorf("mount_buffer must not be negative, got %d", c.MountBuffer)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
