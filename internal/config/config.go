// Package config loads service settings from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileEnv names the environment variable holding an optional config file
// path (YAML, TOML or JSON). Environment variables override file values.
const FileEnv = "TICKETGEST_CONFIG"

type Config struct {
	Port string

	// Pathstore connection; storing is skipped when PathstoreURL is empty.
	PathstoreURL    string
	PathstoreAPIKey string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Origin assumed for uploads that do not say where they were captured.
	DefaultOrigin string

	// PDF
	PDFFallbackPdftotext bool
}

const (
	defaultPort           = "8090"
	defaultWorkerCount    = 4
	defaultMaxQueueSize   = 100
	defaultMaxUploadBytes = 52428800 // 50MB
	defaultJobTTL         = time.Hour
)

// Load reads the configuration. It fails only when a config file is named
// but cannot be read.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", defaultPort)
	v.SetDefault("PATHSTORE_URL", "")
	v.SetDefault("PATHSTORE_API_KEY", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("WORKER_COUNT", defaultWorkerCount)
	v.SetDefault("MAX_QUEUE_SIZE", defaultMaxQueueSize)
	v.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	v.SetDefault("JOB_TTL", defaultJobTTL)
	v.SetDefault("DEFAULT_ORIGIN", "")
	v.SetDefault("PDF_FALLBACK_PDFTOTEXT", true)

	if path := v.GetString(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Port: v.GetString("PORT"),

		PathstoreURL:    strings.TrimRight(v.GetString("PATHSTORE_URL"), "/"),
		PathstoreAPIKey: v.GetString("PATHSTORE_API_KEY"),

		APIKey: v.GetString("API_KEY"),

		WorkerCount:  v.GetInt("WORKER_COUNT"),
		MaxQueueSize: v.GetInt("MAX_QUEUE_SIZE"),

		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		JobTTL: v.GetDuration("JOB_TTL"),

		DefaultOrigin: strings.TrimRight(v.GetString("DEFAULT_ORIGIN"), "/"),

		PDFFallbackPdftotext: v.GetBool("PDF_FALLBACK_PDFTOTEXT"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = defaultMaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = defaultJobTTL
	}

	return cfg, nil
}

// StoreEnabled reports whether extracted tickets are persisted.
func (c Config) StoreEnabled() bool {
	return c.PathstoreURL != ""
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY is required")
	}
	if c.StoreEnabled() && c.PathstoreAPIKey == "" {
		return errors.New("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if c.DefaultOrigin != "" {
		u, err := url.Parse(c.DefaultOrigin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("DEFAULT_ORIGIN %q is not an absolute URL", c.DefaultOrigin)
		}
	}
	return nil
}
