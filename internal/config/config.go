// Package config loads get-papers-list settings from defaults, an optional
// YAML file, and PAPERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/henrybloomingdale/get-papers-list/internal/eutils"
	"github.com/henrybloomingdale/get-papers-list/internal/ncbi"
)

// EnvPrefix is the prefix for environment overrides, e.g. PAPERS_NCBI_API_KEY.
const EnvPrefix = "PAPERS"

// Name is the config file base name looked up without --config.
const Name = "get-papers-list"

// Config holds all settings for a run.
type Config struct {
	NCBI    NCBIConfig    `mapstructure:"ncbi"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// NCBIConfig holds E-utilities client settings.
type NCBIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Tool             string        `mapstructure:"tool"`
	Email            string        `mapstructure:"email"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxResponseBytes int64         `mapstructure:"max_response_bytes"`
}

// SearchConfig holds ESearch settings.
type SearchConfig struct {
	// Limit is the number of identifiers requested, at most eutils.MaxSearchResults.
	Limit int `mapstructure:"limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. path, when non-empty, names the config file
// explicitly and must exist; otherwise ./get-papers-list.yaml and
// ~/.config/get-papers-list/get-papers-list.yaml are tried.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	// NCBI's conventional variable is honored when nothing else set a key.
	if cfg.NCBI.APIKey == "" {
		cfg.NCBI.APIKey = os.Getenv("NCBI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ncbi.base_url", ncbi.DefaultBaseURL)
	v.SetDefault("ncbi.api_key", "")
	v.SetDefault("ncbi.tool", ncbi.DefaultTool)
	v.SetDefault("ncbi.email", ncbi.DefaultEmail)
	v.SetDefault("ncbi.timeout", ncbi.DefaultTimeout)
	v.SetDefault("ncbi.max_response_bytes", ncbi.DefaultMaxResponseBytes)

	v.SetDefault("search.limit", eutils.MaxSearchResults)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.NCBI.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ncbi.base_url %q is not an absolute URL", c.NCBI.BaseURL)
	}
	if c.NCBI.Timeout <= 0 {
		return fmt.Errorf("ncbi.timeout must be positive, got %s", c.NCBI.Timeout)
	}
	if c.NCBI.MaxResponseBytes <= 0 {
		return fmt.Errorf("ncbi.max_response_bytes must be positive, got %d", c.NCBI.MaxResponseBytes)
	}
	if c.Search.Limit < 1 || c.Search.Limit > eutils.MaxSearchResults {
		return fmt.Errorf("search.limit must be between 1 and %d, got %d", eutils.MaxSearchResults, c.Search.Limit)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
