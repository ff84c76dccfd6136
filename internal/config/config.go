// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/jobfit/internal/dom"
	"github.com/jonathan/jobfit/internal/fetch"
	"github.com/jonathan/jobfit/internal/types"
)

// EnvPrefix prefixes every environment variable override, e.g. JOBFIT_FETCH_TIMEOUT.
const EnvPrefix = "JOBFIT"

// Config is the full runtime configuration.
type Config struct {
	Log         LogConfig       `mapstructure:"log"`
	Viewport    ViewportConfig  `mapstructure:"viewport"`
	Locator     LocatorConfig   `mapstructure:"locator"`
	Fetch       FetchConfig     `mapstructure:"fetch"`
	DatabaseURL string          `mapstructure:"database_url" validate:"omitempty,url"`
	Server      ServerConfig    `mapstructure:"server"`
	Ingestion   IngestionConfig `mapstructure:"ingestion"`
}

// LogConfig controls logger construction
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ViewportConfig is the viewport assumed for pages that are not browser-rendered
type ViewportConfig struct {
	Width  float64 `mapstructure:"width" validate:"gt=0"`
	Height float64 `mapstructure:"height" validate:"gt=0"`
}

// LocatorConfig tunes job-description selection
type LocatorConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gt=0,lte=1"`
}

// FetchConfig controls page retrieval
type FetchConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent      string        `mapstructure:"user_agent" validate:"required"`
	UseBrowser     bool          `mapstructure:"use_browser"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout" validate:"gt=0"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// IngestionConfig controls batch locating
type IngestionConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

// defaults are registered on every viper instance so that env overrides apply to all keys.
var defaults = map[string]any{
	"log.json":               false,
	"log.debug":              false,
	"viewport.width":         dom.DefaultViewport.Width,
	"viewport.height":        dom.DefaultViewport.Height,
	"locator.min_confidence": types.MediumConfidenceThreshold,
	"fetch.timeout":          fetch.DefaultTimeout,
	"fetch.user_agent":       fetch.DefaultUserAgent,
	"fetch.use_browser":      false,
	"fetch.browser_timeout":  fetch.DefaultBrowserTimeout,
	"database_url":           "",
	"server.port":            8080,
	"ingestion.concurrency":  4,
}

// NewViper returns a viper instance with defaults and JOBFIT_ environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into v and decodes it. An explicit path must exist;
// without one, jobfit.yaml in the working directory is used when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("jobfit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// FetchOptions converts the fetch settings for fetch.URL.
func (c *Config) FetchOptions() *fetch.Options {
	return &fetch.Options{
		Timeout:   c.Fetch.Timeout,
		UserAgent: c.Fetch.UserAgent,
	}
}

// BrowserOptions converts the fetch settings for fetch.TakeSnapshot.
func (c *Config) BrowserOptions() *fetch.BrowserOptions {
	return &fetch.BrowserOptions{
		Timeout:  c.Fetch.BrowserTimeout,
		Viewport: c.ViewportSize(),
	}
}

// ViewportSize returns the configured viewport.
func (c *Config) ViewportSize() dom.Viewport {
	return dom.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}
