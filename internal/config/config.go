// Package config loads classmos settings from a YAML file, a .env file and
// CLASSMOS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // engine.timezone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/madan-d/classmos/internal/llm"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CLASSMOS"

// Config holds all configuration for classmos.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      llm.Config     `mapstructure:"llm"`
	Lives    LivesConfig    `mapstructure:"lives"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	// Path is the SQLite file. Empty resolves to the XDG data directory.
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LivesConfig configures the regeneration watcher.
type LivesConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// EngineConfig holds progression settings.
type EngineConfig struct {
	// Timezone names the IANA zone calendar days are counted in. Empty
	// means the local zone.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the engine time zone.
func (e EngineConfig) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("engine.timezone: %w", err)
	}
	return loc, nil
}

// Load reads configuration. When path is empty the file classmos.yaml is
// searched in the working directory, $XDG_CONFIG_HOME/classmos and
// /etc/classmos; a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("classmos")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	providerSet := cfg.LLM.Provider != ""
	if !providerSet {
		cfg.LLM.Provider = llm.DefaultConfig().Provider
	}
	discoverKeys(&cfg.LLM, providerSet)
	return &cfg, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

func searchPaths() []string {
	paths := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "classmos"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "classmos"))
	}
	return append(paths, "/etc/classmos")
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("database.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// No default so an explicit choice can be told apart from discovery.
	_ = v.BindEnv("llm.provider", EnvPrefix+"_LLM_PROVIDER")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("lives.poll_interval", 10*time.Second)

	v.SetDefault("metrics.addr", "")

	v.SetDefault("engine.timezone", "")
}

// discoverKeys fills empty API keys from the providers' standard
// environment variables. The provider itself only switches to the
// discovered one when it was not configured explicitly.
func discoverKeys(cfg *llm.Config, providerSet bool) {
	if cfg.HasKey() {
		return
	}
	found, ok := llm.DiscoverConfig()
	if !ok {
		return
	}
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = found.Anthropic.APIKey
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = found.OpenAI.APIKey
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = found.Gemini.APIKey
	}
	if cfg.OpenRouter.APIKey == "" {
		cfg.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
	if !providerSet && !cfg.HasKey() {
		cfg.Provider = found.Provider
	}
}
