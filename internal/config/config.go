// Package config resolves skillboard settings from (highest first) flags,
// SKILLBOARD_* environment variables, a .skillboard.yaml file, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "SKILLBOARD"
	ConfigName     = ".skillboard"
	envConfigDir   = "SKILLBOARD_CONFIG_DIR"
	DefaultData    = "skills.json"
	DefaultWebAddr = "127.0.0.1:3335"
	DefaultTUIAddr = "127.0.0.1:3334"
)

// Config is the full set of settings.
type Config struct {
	Data   string       `mapstructure:"data"`
	Format string       `mapstructure:"format"`
	Pretty bool         `mapstructure:"pretty"`
	Log    LogConfig    `mapstructure:"log"`
	Web    WebConfig    `mapstructure:"web"`
	WebTUI WebTUIConfig `mapstructure:"webtui"`
	TUI    TUIConfig    `mapstructure:"tui"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// WebConfig contains web dashboard settings
type WebConfig struct {
	Addr  string `mapstructure:"addr"`
	Watch bool   `mapstructure:"watch"`
}

type WebTUIConfig struct {
	Addr string `mapstructure:"addr"`
}

type TUIConfig struct {
	DebugLog string `mapstructure:"debug_log"`
}

// New returns a viper instance with skillboard's defaults and env binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("data", DefaultData)
	v.SetDefault("format", "json")
	v.SetDefault("pretty", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("web.addr", DefaultWebAddr)
	v.SetDefault("web.watch", true)
	v.SetDefault("webtui.addr", DefaultTUIAddr)
	v.SetDefault("tui.debug_log", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads cfgFile if given, otherwise looks for .skillboard.yaml in
// $SKILLBOARD_CONFIG_DIR, the working directory and $HOME. A missing file is
// not an error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if strings.TrimSpace(cfgFile) != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		if override := strings.TrimSpace(os.Getenv(envConfigDir)); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// Load unmarshals the resolved settings.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills fields an explicit empty value left blank.
func applyDefaults(cfg *Config) {
	cfg.Data = strings.TrimSpace(cfg.Data)
	if cfg.Data == "" {
		cfg.Data = DefaultData
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.Format) == "" {
		cfg.Log.Format = "text"
	}
	if strings.TrimSpace(cfg.Web.Addr) == "" {
		cfg.Web.Addr = DefaultWebAddr
	}
	if strings.TrimSpace(cfg.WebTUI.Addr) == "" {
		cfg.WebTUI.Addr = DefaultTUIAddr
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "edn", "yaml", "yml", "table":
	default:
		return fmt.Errorf("config: unknown format %q (want json|edn|yaml|table)", c.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q (want text|json)", c.Log.Format)
	}
	return nil
}
