package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Log sources
const (
	LogSourcePoll = "poll"
	LogSourceWS   = "ws"
	LogSourceNone = "none"
)

// Config holds all application configuration
type Config struct {
	Port               string        `mapstructure:"port"`
	LogLevel           string        `mapstructure:"log_level"`
	BackendURL         string        `mapstructure:"backend_url"`
	BackendWSURL       string        `mapstructure:"backend_ws_url"`
	DatabaseURL        string        `mapstructure:"database_url"`
	LocalDBPath        string        `mapstructure:"local_db_path"`
	LogSource          string        `mapstructure:"log_source"`
	LogPollInterval    time.Duration `mapstructure:"log_poll_interval"`
	SecureCookies      bool          `mapstructure:"secure_cookies"`
	GeminiAPIKey       string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey       string        `mapstructure:"openai_api_key"`
	ProgressStagesFile string        `mapstructure:"progress_stages_file"`
	YouTubeAPIKey      string        `mapstructure:"youtube_api_key"`
}

// AuthEnabled reports whether accounts are available. They need the
// hosted database.
func (c *Config) AuthEnabled() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from environment variables
// Supports _FILE suffix pattern for reading secrets from files (Docker Swarm style)
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("port", "4500")
	v.SetDefault("log_level", "info")
	v.SetDefault("local_db_path", "glimpse.db")
	v.SetDefault("log_source", LogSourcePoll)
	v.SetDefault("log_poll_interval", "1s")
	v.SetDefault("secure_cookies", false)

	v.AutomaticEnv()

	// Map of config keys to their env var names
	envBindings := map[string]string{
		"port":                 "PORT",
		"log_level":            "LOG_LEVEL",
		"backend_url":          "BACKEND_URL",
		"public_backend_url":   "PUBLIC_BACKEND_URL",
		"backend_ws_url":       "BACKEND_WS_URL",
		"database_url":         "DATABASE_URL",
		"local_db_path":        "LOCAL_DB_PATH",
		"log_source":           "LOG_SOURCE",
		"log_poll_interval":    "LOG_POLL_INTERVAL",
		"secure_cookies":       "SECURE_COOKIES",
		"gemini_api_key":       "GEMINI_API_KEY",
		"openai_api_key":       "OPENAI_API_KEY",
		"progress_stages_file": "PROGRESS_STAGES_FILE",
		"youtube_api_key":      "YOUTUBE_API_KEY",
	}

	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", envVar, err)
		}
	}

	cfg := &Config{}

	// Load each config value, checking for _FILE variants first
	cfg.Port = getConfigValue(v, "port", "PORT")
	cfg.LogLevel = getConfigValue(v, "log_level", "LOG_LEVEL")
	cfg.BackendURL = getConfigValue(v, "backend_url", "BACKEND_URL")
	cfg.BackendWSURL = getConfigValue(v, "backend_ws_url", "BACKEND_WS_URL")
	cfg.DatabaseURL = getConfigValue(v, "database_url", "DATABASE_URL")
	cfg.LocalDBPath = getConfigValue(v, "local_db_path", "LOCAL_DB_PATH")
	cfg.LogSource = strings.ToLower(getConfigValue(v, "log_source", "LOG_SOURCE"))
	cfg.GeminiAPIKey = getConfigValue(v, "gemini_api_key", "GEMINI_API_KEY")
	cfg.OpenAIAPIKey = getConfigValue(v, "openai_api_key", "OPENAI_API_KEY")
	cfg.ProgressStagesFile = getConfigValue(v, "progress_stages_file", "PROGRESS_STAGES_FILE")
	cfg.YouTubeAPIKey = getConfigValue(v, "youtube_api_key", "YOUTUBE_API_KEY")
	cfg.SecureCookies = v.GetBool("secure_cookies")
	cfg.LogPollInterval = v.GetDuration("log_poll_interval")

	// The public URL is what the browser build of the app was pointed at;
	// honour it when the server-side URL is not set.
	if cfg.BackendURL == "" {
		cfg.BackendURL = getConfigValue(v, "public_backend_url", "PUBLIC_BACKEND_URL")
	}

	// Validate required config
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}
	switch cfg.LogSource {
	case LogSourcePoll, LogSourceWS, LogSourceNone:
	default:
		return nil, fmt.Errorf("LOG_SOURCE must be one of poll, ws, none: got %q", cfg.LogSource)
	}
	if cfg.LogSource == LogSourcePoll && cfg.LogPollInterval <= 0 {
		return nil, fmt.Errorf("LOG_POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

// getConfigValue checks for FOO_FILE env var first, reads from file if exists,
// otherwise falls back to FOO env var
func getConfigValue(v *viper.Viper, key, envVar string) string {
	// Check for _FILE variant first
	fileEnvVar := envVar + "_FILE"
	if filePath := os.Getenv(fileEnvVar); filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	// Fall back to regular env var via viper
	return v.GetString(key)
}
