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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: production
jwt:
  secret: from-yaml
  access_ttl: 30m
storage:
  type: minio
  bucket: fishlog
images:
  max_per_capture: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "from-yaml", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "minio", cfg.Storage.Type)
	assert.Equal(t, 8, cfg.Images.MaxPerCapture)
	assert.EqualValues(t, 10*1024*1024, cfg.Images.MaxFileSize)
	assert.Equal(t, 300, cfg.Images.ThumbnailWidth)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-yaml\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("IMAGES_ALLOWED_TYPES", "image/jpeg,image/png")
	t.Setenv("STORAGE_TYPE", "s3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, []string{"image/jpeg", "image/png"}, cfg.Images.AllowedTypes)
	assert.Equal(t, "s3", cfg.Storage.Type)
}

func TestLoad_MissingFileTolerated(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "only-env", cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.Images.MaxPerCapture)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.JWT.Secret = "secret"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no secret", func(c *Config) { c.JWT.Secret = "" }},
		{"zero quota", func(c *Config) { c.Images.MaxPerCapture = 0 }},
		{"zero file size", func(c *Config) { c.Images.MaxFileSize = 0 }},
		{"empty thumbnail box", func(c *Config) { c.Images.ThumbnailHeight = 0 }},
		{"no mime types", func(c *Config) { c.Images.AllowedTypes = nil }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig_UsesConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "jwt:\n  secret: via-path\n"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "via-path", cfg.JWT.Secret)
	assert.Same(t, cfg, AppConfig)
}
