package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/pkg/env"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, env.Dev, cfg.EnvMode())
	assert.Equal(t, ":5000", cfg.HTTP.Addr())
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Empty(t, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Mail.SendTimeout)
	assert.Equal(t, 3, cfg.Mail.MaxRetries)
	assert.Equal(t, 10*time.Minute, cfg.Mail.OutboxRetention)
	assert.Equal(t, time.Minute, cfg.Mail.OutboxPurgeInterval)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Empty(t, cfg.SMTP.Host)
	assert.Equal(t, "amize", cfg.S3.Bucket)
	assert.Equal(t, 30*time.Second, cfg.S3.UploadTimeout)
	assert.NotEmpty(t, cfg.Database.URL)
	assert.Empty(t, cfg.OTel.Endpoint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AMIZE_MODE", "prod")
	t.Setenv("AMIZE_HTTP_PORT", "8081")
	t.Setenv("AMIZE_HTTP_CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("AMIZE_DATABASE_URL", "postgres://u:p@db:5432/amize")
	t.Setenv("AMIZE_SMTP_HOST", "smtp.example.com")
	t.Setenv("AMIZE_MAIL_SEND_TIMEOUT", "3s")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, env.Prod, cfg.EnvMode())
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "postgres://u:p@db:5432/amize", cfg.Database.URL)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 3*time.Second, cfg.Mail.SendTimeout)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
mode = "local"

[http]
port = 9000

[s3]
bucket = "media"
endpoint = "http://minio:9000"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	t.Setenv("AMIZE_S3_BUCKET", "from-env")

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, env.Local, cfg.EnvMode())
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, "from-env", cfg.S3.Bucket, "env wins over the file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "mode", key: "AMIZE_MODE", val: "staging"},
		{name: "port", key: "AMIZE_HTTP_PORT", val: "70000"},
		{name: "retries", key: "AMIZE_MAIL_MAX_RETRIES", val: "-1"},
		{name: "purge interval", key: "AMIZE_MAIL_OUTBOX_PURGE_INTERVAL", val: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
