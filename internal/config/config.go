package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"afmdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Backend   BackendConfig
	Session   SessionConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Profiling ProfilingConfig
	Presets   PresetConfig
	LogLevel  string
}

// BackendConfig locates the analysis backend
type BackendConfig struct {
	URL          string
	WSPath       string
	WebSocketURL string
	RateLimit    float64
}

// SessionConfig tunes the curve streaming session
type SessionConfig struct {
	LoadingTimeout time.Duration
	DialTimeout    time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig enables preset persistence when URL is set
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether presets are persisted
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// PresetConfig points at an optional file seeding the analysis state
type PresetConfig struct {
	File string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Backend: BackendConfig{
			URL:       strings.TrimRight(getEnvOrDefault("BACKEND_URL", "http://localhost:8000"), "/"),
			WSPath:    getEnvOrDefault("WS_PATH", "/ws/data"),
			RateLimit: getEnvFloatOrDefault("BACKEND_RATE_LIMIT", 5),
		},
		Session: SessionConfig{
			LoadingTimeout: getEnvDurationOrDefault("LOADING_TIMEOUT", 30*time.Second),
			DialTimeout:    getEnvDurationOrDefault("DIAL_TIMEOUT", 10*time.Second),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
		Presets: PresetConfig{
			File: os.Getenv("ANALYSIS_PRESET_FILE"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	wsURL, err := WebSocketURL(config.Backend.URL, config.Backend.WSPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive WebSocket URL")
	}
	config.Backend.WebSocketURL = wsURL

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// WebSocketURL maps the backend's base URL to its socket endpoint:
// https becomes wss, http becomes ws, ws and wss are kept
func WebSocketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", errors.ConfigInvalid("BACKEND_URL must be an absolute URL, got " + strconv.Quote(base))
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", errors.ConfigInvalid("unsupported BACKEND_URL scheme " + strconv.Quote(u.Scheme))
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String(), nil
}

// HTTPBaseURL is the REST root matching a backend URL given as ws or wss
func (b BackendConfig) HTTPBaseURL() string {
	switch {
	case strings.HasPrefix(b.URL, "wss://"):
		return "https://" + strings.TrimPrefix(b.URL, "wss://")
	case strings.HasPrefix(b.URL, "ws://"):
		return "http://" + strings.TrimPrefix(b.URL, "ws://")
	}
	return b.URL
}

func validateConfig(config *Config) error {
	if config.Session.LoadingTimeout <= 0 {
		return errors.ConfigInvalid("LOADING_TIMEOUT must be positive")
	}
	if config.Session.DialTimeout <= 0 {
		return errors.ConfigInvalid("DIAL_TIMEOUT must be positive")
	}
	if config.Backend.RateLimit <= 0 {
		return errors.ConfigInvalid("BACKEND_RATE_LIMIT must be positive")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Profiling.Enabled && config.Profiling.Port == config.Server.Port {
		return errors.ConfigInvalid("PPROF_PORT must differ from PORT")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault also accepts a bare number of seconds
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.ParseFloat(value, 64); err == nil {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return defaultValue
}
