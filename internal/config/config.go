package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Client     ClientConfig     `mapstructure:"client" validate:"required"`
	Review     ReviewConfig     `mapstructure:"review"`
	Dictionary DictionaryConfig `mapstructure:"dictionary" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendDisk     = "disk"
)

// StorageConfig selects and configures the blob backend behind /api/data.
type StorageConfig struct {
	Backend      string `mapstructure:"backend" validate:"required,oneof=memory postgres sqlite disk"`
	DatabaseURL  string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	SQLitePath   string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
	DiskPath     string `mapstructure:"disk_path" validate:"required_if=Backend disk"`
	BlobKey      string `mapstructure:"blob_key" validate:"required,max=128"`
	HistoryLimit int    `mapstructure:"history_limit" validate:"gte=0,lte=1000"`
}

// ClientConfig configures the CLI's connection to the persistence endpoint.
type ClientConfig struct {
	Endpoint       string        `mapstructure:"endpoint" validate:"required,url"`
	SaveDebounce   time.Duration `mapstructure:"save_debounce" validate:"gte=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	StateDir       string        `mapstructure:"state_dir" validate:"required"`
}

// ReviewConfig overrides the review schedule. An empty Offsets keeps the
// built-in table.
type ReviewConfig struct {
	Offsets  []int  `mapstructure:"offsets" validate:"omitempty,len=6,dive,gt=0"`
	Timezone string `mapstructure:"timezone"`
}

// DictionaryConfig configures the online dictionary lookup.
type DictionaryConfig struct {
	URL            string        `mapstructure:"url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxDefinitions int           `mapstructure:"max_definitions" validate:"gt=0,lte=20"`
}

// LLMConfig contains all LLM integration related settings. An empty API key
// disables the generated-definition fallback.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
}
