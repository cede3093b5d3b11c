package config

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "MONGOURI", "DB", "REDIS_ADD", "REDIS_PASS", "JWT_KEY", "RABBITMQ_URL",
	"DATA_SOURCE", "CATALOG_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv removes every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func emptyFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("DATA_SOURCE", "fixture")

	cfg, err := Load(emptyFile(t))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceFixture, cfg.DataSource)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"JWT_KEY=from-file\nMONGOURI=mongodb://localhost:27017\nDB=marketplace\nREDIS_ADD=localhost:6379\nCATALOG_CACHE_TTL=90s\nPORT=9000\n",
	), 0o600))
	t.Setenv("PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTKey)
	assert.Equal(t, SourceMongo, cfg.DataSource)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "marketplace", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "7000", cfg.Port, "process environment wins over the file")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("DATA_SOURCE", "fixture")

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "absent.env")
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing jwt key", map[string]string{"DATA_SOURCE": "fixture"}, "JWT_KEY"},
		{"mongo without uri", map[string]string{"JWT_KEY": "k", "DB": "x"}, "MONGOURI"},
		{"mongo without db", map[string]string{"JWT_KEY": "k", "MONGOURI": "mongodb://h"}, "DB"},
		{"unknown source", map[string]string{"JWT_KEY": "k", "DATA_SOURCE": "postgres"}, "DATA_SOURCE"},
		{"bad ttl", map[string]string{"JWT_KEY": "k", "DATA_SOURCE": "fixture", "CATALOG_CACHE_TTL": "soon"}, "CATALOG_CACHE_TTL"},
		{"negative ttl", map[string]string{"JWT_KEY": "k", "DATA_SOURCE": "fixture", "CATALOG_CACHE_TTL": "-1m"}, "CATALOG_CACHE_TTL"},
		{"bad level", map[string]string{"JWT_KEY": "k", "DATA_SOURCE": "fixture", "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad format", map[string]string{"JWT_KEY": "k", "DATA_SOURCE": "fixture", "LOG_FORMAT": "xml"}, "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(emptyFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"service":"property-marketplace"`)
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "debug", LogFormat: "text"}, &buf)
	logger.Debug("catalogue loaded", "count", 6)
	assert.Contains(t, buf.String(), "catalogue loaded")
	assert.Contains(t, buf.String(), "count=6")
}
