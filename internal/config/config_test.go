package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithDatabaseParts(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "9090")
	t.Setenv("EMAIL_PROVIDER", "log")
	t.Setenv("PSQL_HOST", "db")
	t.Setenv("PSQL_PORT", "5433")
	t.Setenv("PSQL_USER", "fleet")
	t.Setenv("PSQL_PASSWORD", "secret")
	t.Setenv("PSQL_DB_NAME", "fleet_test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://fleet:secret@db:5433/fleet_test?sslmode=disable", cfg.DatabaseURL)
}

func TestLoadYAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := []byte(`
port: "7000"
database_url: postgres://u:p@h:5432/fleet?sslmode=disable
jwt_secret: from-file
cors_origins:
  - https://a.example
email_provider: sendgrid
sendgrid_api_key: key
sendgrid_from_email: noreply@example.com
`)
	require.NoError(t, os.WriteFile(path, yamlBody, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7001")
	t.Setenv("CORS_ORIGIN", "https://b.example, https://c.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@h:5432/fleet?sslmode=disable")
	t.Setenv("JWT_SECRET", "from-file")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORSOrigins)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
	assert.Equal(t, "key", cfg.SendGridAPIKey)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.NoError(t, cfg.Validate())

	cfg.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.EmailProvider = "smtp"
	assert.Error(t, cfg.Validate())
	cfg.SMTPHost = "smtp.example.com"
	cfg.SMTPFrom = "noreply@example.com"
	assert.NoError(t, cfg.Validate())

	cfg = defaults()
	cfg.Port = "http"
	assert.Error(t, cfg.Validate())

	cfg = defaults()
	cfg.EmailProvider = "pigeon"
	assert.Error(t, cfg.Validate())
}
