package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "LUMINA"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.sqlite_path", "lumina.db")
	v.SetDefault("storage.disk_path", "~/.lumina/data")
	v.SetDefault("storage.blob_key", "main-data")
	v.SetDefault("storage.history_limit", 10)

	v.SetDefault("client.endpoint", "http://localhost:8080/api/data")
	v.SetDefault("client.save_debounce", 1500*time.Millisecond)
	v.SetDefault("client.request_timeout", 10*time.Second)
	v.SetDefault("client.state_dir", "~/.lumina")

	v.SetDefault("review.offsets", []int{})
	v.SetDefault("review.timezone", "")

	v.SetDefault("dictionary.url", "https://api.dictionaryapi.dev/api/v2/entries/en")
	v.SetDefault("dictionary.timeout", 4*time.Second)
	v.SetDefault("dictionary.max_definitions", 3)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(viper.New(), "")
}

// LoadFrom loads configuration into v. A non-empty file is read explicitly;
// otherwise config.yaml is looked up in the working directory and ~/.lumina.
func LoadFrom(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home + "/.lumina")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if err := expandPaths(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags and cross-field rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Review.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Review.Timezone); err != nil {
			return fmt.Errorf("config validation failed: review.timezone: %w", err)
		}
	}
	for i := 1; i < len(cfg.Review.Offsets); i++ {
		if cfg.Review.Offsets[i] < cfg.Review.Offsets[i-1] {
			return fmt.Errorf("config validation failed: review.offsets must be non-decreasing")
		}
	}
	return nil
}

// Location returns the configured review time zone, or time.Local.
func (c ReviewConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func expandPaths(cfg *Config) error {
	var err error
	if cfg.Storage.DiskPath, err = homedir.Expand(cfg.Storage.DiskPath); err != nil {
		return fmt.Errorf("error expanding storage.disk_path: %w", err)
	}
	if cfg.Client.StateDir, err = homedir.Expand(cfg.Client.StateDir); err != nil {
		return fmt.Errorf("error expanding client.state_dir: %w", err)
	}
	return nil
}
