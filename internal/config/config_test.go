package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
persistence:
  backend: redis
backend:
  base_url: http://backend.local/api
  timeout_seconds: 3
redis:
  host: cache
  port: 6380
storage:
  type: minio
  minio_bucket: vouchers
cors:
  allowed_origins: ["http://app.local"]
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Persistence.Backend)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "vouchers", cfg.Storage.MinioBucket)
	assert.Equal(t, []string{"http://app.local"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Minute, cfg.Persistence.StoreIdle)
}

func TestLoadConfigStoreEvictionDisabled(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
persistence:
  backend: memory
  store_idle_minutes: 0
backend:
  base_url: http://backend.local/api
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Persistence.Backend)
	assert.Zero(t, cfg.Persistence.StoreIdle)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
backend:
  base_url: http://backend.local/api
storage:
  type: minio
`)
	t.Setenv("COURSE_BACKEND_URL", "http://override.local")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://override.local", cfg.Backend.BaseURL)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "sql", cfg.Persistence.Backend)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "short secret in release",
			content: "server:\n  mode: release\nbackend:\n  base_url: http://b\njwt:\n  secret: short\n",
			errPart: "JWT secret is too short",
		},
		{
			name:    "missing backend",
			content: "server:\n  mode: debug\n",
			errPart: "backend.base_url is required",
		},
		{
			name:    "unknown persistence",
			content: "server:\n  mode: debug\nbackend:\n  base_url: http://b\npersistence:\n  backend: etcd\n",
			errPart: "unknown persistence backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
