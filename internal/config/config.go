package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/shellbridge/internal/env"
)

// Config holds application configuration.
type Config struct {
	Bridge  BridgeConfig
	Log     LogConfig
	Metrics MetricsConfig
	UI      UIConfig
}

// BridgeConfig selects and reaches the command backend.
type BridgeConfig struct {
	// Mode is auto, native or web. auto probes the marker variable.
	Mode        string
	Marker      string
	URL         string
	Token       string
	Timeout     time.Duration
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type LogConfig struct {
	Level  string
	File   string
	Format string
}

// MetricsConfig enables the /metrics listener when Listen is set.
type MetricsConfig struct {
	Listen string
}

type UIConfig struct {
	StartView string `mapstructure:"start_view"`
	AltScreen bool   `mapstructure:"alt_screen"`
}

// Path returns the config file in use: SHELLBRIDGE_CONFIG or the default location.
func Path() string {
	if p := os.Getenv("SHELLBRIDGE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "shellbridge", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix SHELLBRIDGE_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("bridge.mode", "auto")
	v.SetDefault("bridge.marker", env.DefaultMarker)
	v.SetDefault("bridge.url", "")
	v.SetDefault("bridge.token", "")
	v.SetDefault("bridge.timeout", "10s")
	v.SetDefault("bridge.dial_timeout", "3s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".local", "state", "shellbridge", "shellbridge.log"))
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.listen", "")
	v.SetDefault("ui.start_view", "text")
	v.SetDefault("ui.alt_screen", true)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("SHELLBRIDGE_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "shellbridge"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHELLBRIDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Bridge.Mode) {
	case "auto", "native", "web":
	default:
		errs = append(errs, fmt.Errorf("bridge.mode %q: want auto, native or web", c.Bridge.Mode))
	}
	if strings.TrimSpace(c.Bridge.Marker) == "" {
		errs = append(errs, errors.New("bridge.marker must not be empty"))
	}
	if c.Bridge.Timeout < 0 {
		errs = append(errs, fmt.Errorf("bridge.timeout %s is negative", c.Bridge.Timeout))
	}
	if c.Bridge.DialTimeout < 0 {
		errs = append(errs, fmt.Errorf("bridge.dial_timeout %s is negative", c.Bridge.DialTimeout))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	switch strings.ToLower(c.UI.StartView) {
	case "text", "devices", "printers":
	default:
		errs = append(errs, fmt.Errorf("ui.start_view %q: want text, devices or printers", c.UI.StartView))
	}
	return errors.Join(errs...)
}
