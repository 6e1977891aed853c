package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Crime dashboard
	CrimeFallbackPath  string `mapstructure:"crime_fallback_path" yaml:"crime_fallback_path"`
	DefaultDescription string `mapstructure:"default_description" yaml:"default_description"`
	OffenseTopN        int    `mapstructure:"offense_top_n" yaml:"offense_top_n"`

	// Movie explorer
	EpicMinDuration   int    `mapstructure:"epic_min_duration" yaml:"epic_min_duration"`
	SpotlightDirector string `mapstructure:"spotlight_director" yaml:"spotlight_director"`
	TopN              int    `mapstructure:"top_n" yaml:"top_n"`
	GenreTopN         int    `mapstructure:"genre_top_n" yaml:"genre_top_n"`

	// Session memo capacity; 1 keeps only the latest upload per dataset.
	CacheMaxEntries int `mapstructure:"cache_max_entries" yaml:"cache_max_entries"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"log_level",
	"crime_fallback_path",
	"default_description",
	"offense_top_n",
	"epic_min_duration",
	"spotlight_director",
	"top_n",
	"genre_top_n",
	"cache_max_entries",
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLOOM")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("crime_fallback_path", "crime.csv")
	v.SetDefault("default_description", "Unknown")
	v.SetDefault("offense_top_n", 15)
	v.SetDefault("epic_min_duration", 220)
	v.SetDefault("spotlight_director", "Steven Spielberg")
	v.SetDefault("top_n", 10)
	v.SetDefault("genre_top_n", 15)
	v.SetDefault("cache_max_entries", 1)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns a value by key, validating numeric settings.
func (c *Global) Set(key, val string) error {
	switch key {
	case "log_level":
		switch val {
		case "trace", "debug", "info", "warn", "error", "off":
			c.LogLevel = val
		default:
			return fmt.Errorf("invalid log_level: %s (use trace, debug, info, warn, error or off)", val)
		}
	case "crime_fallback_path":
		c.CrimeFallbackPath = val
	case "default_description":
		c.DefaultDescription = val
	case "spotlight_director":
		c.SpotlightDirector = val
	case "offense_top_n", "epic_min_duration", "top_n", "genre_top_n", "cache_max_entries":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		if key == "cache_max_entries" && i == 0 {
			return fmt.Errorf("invalid int for %s: must be at least 1", key)
		}
		*c.intField(key) = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the value of key formatted for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "log_level":
		return c.LogLevel, nil
	case "crime_fallback_path":
		return c.CrimeFallbackPath, nil
	case "default_description":
		return c.DefaultDescription, nil
	case "spotlight_director":
		return c.SpotlightDirector, nil
	}
	if p := c.intField(key); p != nil {
		return strconv.Itoa(*p), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

func (c *Global) intField(key string) *int {
	switch key {
	case "offense_top_n":
		return &c.OffenseTopN
	case "epic_min_duration":
		return &c.EpicMinDuration
	case "top_n":
		return &c.TopN
	case "genre_top_n":
		return &c.GenreTopN
	case "cache_max_entries":
		return &c.CacheMaxEntries
	}
	return nil
}
