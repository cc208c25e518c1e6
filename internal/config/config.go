package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string

	JWTSecret string
	JWTTTL    time.Duration

	OllamaHost    string
	TeamNameModel string

	OTelEnabled     bool
	OTelServiceName string
}

var required = []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET"}

// Load reads .env.local (or .env) into the process environment and then resolves
// every key through viper, so real environment variables still win.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Info(".env not found, using environment variables")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("TEAM_NAME_MODEL", "llama3.2")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "krews-chat")
}

func fromViper(v *viper.Viper) (*Config, error) {
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("%s is not set", key)
		}
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	return &Config{
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          ttl,
		OllamaHost:      v.GetString("OLLAMA_HOST"),
		TeamNameModel:   v.GetString("TEAM_NAME_MODEL"),
		OTelEnabled:     v.GetBool("OTEL_ENABLED"),
		OTelServiceName: v.GetString("OTEL_SERVICE_NAME"),
	}, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
