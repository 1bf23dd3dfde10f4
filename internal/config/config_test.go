package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", testSecret)
	t.Setenv("BACKOFFICE_SERVER_PORT", "9090")

	cfg, err := LoadWithEnv("", "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/backoffice.db", cfg.Database.Path)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.False(t, cfg.Worker.OverdueSweep.Enabled)
	assert.Equal(t, "@every 15m", cfg.Worker.BusinessInfoRefresh)
	assert.Equal(t, []string{"*"}, cfg.Site.AllowedOrigins)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 7000
  write_timeout: 45s
database:
  path: /tmp/test.db
auth:
  jwt_secret: from-file-secret-123456
worker:
  overdue_sweep:
    enabled: true
    schedule: "@daily"
site:
  allowed_origins:
    - https://techvibe.example
`)

	cfg, err := LoadWithEnv(path, "")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "from-file-secret-123456", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Worker.OverdueSweep.Enabled)
	assert.Equal(t, "@daily", cfg.Worker.OverdueSweep.Schedule)
	assert.Equal(t, []string{"https://techvibe.example"}, cfg.Site.AllowedOrigins)
}

func TestLoad_SecretsFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "BACKOFFICE_JWT_SECRET="+testSecret+"\nLARK_APP_ID=cli_a1\nLARK_APP_SECRET=s3cret\nLARK_SALES_CHAT_ID=oc_sales\n")

	// gotenv sets process env; make sure the test leaves no trace
	for _, k := range []string{"BACKOFFICE_JWT_SECRET", "LARK_APP_ID", "LARK_APP_SECRET", "LARK_SALES_CHAT_ID"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadWithEnv("", envFile)
	require.NoError(t, err)

	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "cli_a1", cfg.Lark.AppID)
	assert.Equal(t, "s3cret", cfg.Lark.AppSecret)
	assert.Equal(t, "oc_sales", cfg.Lark.SalesChatID)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", testSecret)

	_, err := LoadWithEnv("", filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", testSecret)

	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Path: "x.db"},
			Auth:     AuthConfig{JWTSecret: testSecret},
			Storage:  StorageConfig{ExportDir: "exports"},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no secret", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret is required"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "at least 16"},
		{"no db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no export dir", func(c *Config) { c.Storage.ExportDir = "" }, "storage.export_dir"},
		{"sweep without schedule", func(c *Config) { c.Worker.OverdueSweep.Enabled = true }, "overdue_sweep.schedule"},
		{"half lark", func(c *Config) { c.Lark.AppID = "cli_x" }, "lark.app_id and lark.app_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
