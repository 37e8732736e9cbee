package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Security SecurityConfig
	Broker   BrokerConfig
	Enhancer EnhancerConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port string
}

// StoreConfig points at the managed backend that owns persistence and identity.
type StoreConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// AccessToken optionally restores a prior session at startup.
	AccessToken string
}

type SecurityConfig struct {
	JWTSecret string
}

// BrokerConfig describes the backend's change-notification feed.
type BrokerConfig struct {
	Brokers   []string
	GroupID   string
	AuthTopic string
}

// EnhancerConfig points at the external menu text-rewrite service.
type EnhancerConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Store: StoreConfig{
			BaseURL:     getEnv("STORE_URL", "http://localhost:54321"),
			APIKey:      os.Getenv("STORE_API_KEY"),
			Timeout:     getDuration("STORE_TIMEOUT", 10*time.Second),
			AccessToken: os.Getenv("STORE_ACCESS_TOKEN"),
		},
		Security: SecurityConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Broker: BrokerConfig{
			Brokers:   splitList(os.Getenv("BROKER_ADDRS")),
			GroupID:   getEnv("BROKER_GROUP", "bistrodesk"),
			AuthTopic: getEnv("BROKER_AUTH_TOPIC", "auth-events"),
		},
		Enhancer: EnhancerConfig{
			BaseURL: os.Getenv("ENHANCER_URL"),
			Timeout: getDuration("ENHANCER_TIMEOUT", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
			Directory: getEnv("LOG_DIR", "./logs"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
