// Package config loads runtime settings and opens the service's backing connections.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceMongo   = "mongo"
	SourceFixture = "fixture"
)

type Config struct {
	Port string

	MongoURI string
	DBName   string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	JWTKey      string
	RabbitMQURL string

	// DataSource is "mongo" or "fixture" (the in-memory demo catalogue).
	DataSource string

	LogLevel  string
	LogFormat string
}

// Load reads a .env file and then the process environment. Variables already
// set in the environment win over the file. An explicit envPath must exist;
// the default ./.env is optional.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		MongoURI:      os.Getenv("MONGOURI"),
		DBName:        os.Getenv("DB"),
		RedisAddr:     os.Getenv("REDIS_ADD"),
		RedisPassword: os.Getenv("REDIS_PASS"),
		JWTKey:        os.Getenv("JWT_KEY"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		DataSource:    strings.ToLower(getenv("DATA_SOURCE", SourceMongo)),
		LogLevel:      strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getenv("LOG_FORMAT", "text")),
	}

	ttl := getenv("CATALOG_CACHE_TTL", "10m")
	var err error
	cfg.CacheTTL, err =time.ParseDuration(ttl)
	if err != nil || cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL must be a positive duration, got %q", ttl)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTKey == "" {
		return errors.New("JWT_KEY environment variable is required")
	}
	switch c.DataSource {
	case SourceMongo:
		if c.MongoURI == "" {
			return errors.New("MONGOURI environment variable is required")
		}
		if c.DBName == "" {
			return errors.New("DB environment variable is required")
		}
	case SourceFixture:
	default:
		return fmt.Errorf("DATA_SOURCE must be %s or %s, got %q", SourceMongo, SourceFixture, c.DataSource)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
