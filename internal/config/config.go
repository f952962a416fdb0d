// Package config loads process configuration from an optional YAML file and
// the environment, environment taking precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "nolog.yaml"

// Metadata backends
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds everything the sync run needs.
type Config struct {
	NotionKey  string `yaml:"notion_key"`
	DatabaseID string `yaml:"database_id"`

	SaveDir    string `yaml:"save_dir"`
	SaveSubDir string `yaml:"save_sub_dir"` // Slash-separated property names
	BlogURL    string `yaml:"blog_url"`

	Owner          string `yaml:"owner"`
	StatusProperty string `yaml:"status_property"`

	MetadataBackend string `yaml:"metadata_backend"`
	MetadataFile    string `yaml:"metadata_file"`
	RedisURL        string `yaml:"redis_url"`
	DatabaseURL     string `yaml:"database_url"`

	Retry RetryConfig `yaml:"retry"`
	Log   LogConfig   `yaml:"log"`
}

// RetryConfig bounds retries of remote calls.
type RetryConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	DelayMS     int    `yaml:"delay_ms"`
	Backoff     string `yaml:"backoff"` // fixed | exponential
}

// Delay returns the base delay between attempts.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelayMS) * time.Millisecond
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Default returns the configuration used before file and environment overlays.
func Default() *Config {
	return &Config{
		SaveDir:         "output",
		StatusProperty:  "status",
		MetadataBackend: BackendFile,
		MetadataFile:    "./pageMetadata.json",
		Retry: RetryConfig{
			MaxAttempts: 3,
			DelayMS:     1000,
			Backoff:     "fixed",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (a
// missing file is skipped) and the environment, then normalises and
// validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.normalise()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.NotionKey = getEnv("NOTION_KEY", c.NotionKey)
	c.DatabaseID = getEnv("NOTION_DATABASE_ID", c.DatabaseID)
	c.SaveDir = getEnv("SAVE_DIR", c.SaveDir)
	c.SaveSubDir = getEnv("SAVE_SUB_DIR", c.SaveSubDir)
	c.BlogURL = getEnv("BLOG_URL", c.BlogURL)
	c.Owner = getEnv("SYNC_OWNER", c.Owner)
	c.StatusProperty = getEnv("STATUS_PROPERTY", c.StatusProperty)
	c.MetadataBackend = getEnv("METADATA_BACKEND", c.MetadataBackend)
	c.MetadataFile = getEnv("METADATA_FILE", c.MetadataFile)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.Retry.MaxAttempts = getEnvInt("RETRY_MAX_ATTEMPTS", c.Retry.MaxAttempts)
	c.Retry.DelayMS = getEnvInt("RETRY_DELAY_MS", c.Retry.DelayMS)
	c.Retry.Backoff = getEnv("RETRY_BACKOFF", c.Retry.Backoff)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

func (c *Config) normalise() {
	c.BlogURL = strings.TrimRight(strings.TrimSpace(c.BlogURL), "/")
	c.SaveSubDir = strings.Trim(strings.TrimSpace(c.SaveSubDir), "/")
	c.MetadataBackend = strings.ToLower(c.MetadataBackend)
	c.Retry.Backoff = strings.ToLower(c.Retry.Backoff)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// SubDirComponents returns the property names that prefix every output path.
func (c *Config) SubDirComponents() []string {
	var parts []string
	for _, p := range strings.Split(c.SaveSubDir, "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Validate checks required settings. A failure is a configuration error and
// must stop the run before any document is processed.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.NotionKey, validation.Required),
		validation.Field(&c.DatabaseID, validation.Required),
		validation.Field(&c.SaveDir, validation.Required),
		validation.Field(&c.Owner, validation.Required),
		validation.Field(&c.StatusProperty, validation.Required),
		validation.Field(&c.MetadataBackend, validation.Required,
			validation.In(BackendFile, BackendRedis, BackendPostgres)),
		validation.Field(&c.MetadataFile,
			validation.When(c.MetadataBackend == BackendFile, validation.Required)),
		validation.Field(&c.RedisURL,
			validation.When(c.MetadataBackend == BackendRedis, validation.Required)),
		validation.Field(&c.DatabaseURL,
			validation.When(c.MetadataBackend == BackendPostgres, validation.Required)),
		validation.Field(&c.Retry),
		validation.Field(&c.Log),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (r RetryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxAttempts, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&r.DelayMS, validation.Min(0)),
		validation.Field(&r.Backoff, validation.Required, validation.In("fixed", "exponential")),
	)
}

// Validate implements validation.Validatable.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
