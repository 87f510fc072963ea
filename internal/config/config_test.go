package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxFileSizeBytes())
	assert.Equal(t, int64(4), cfg.Upload.MaxConcurrent)
	assert.Equal(t, 100, cfg.Profiling.PIISampleSize)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.ObjectStore.Enabled())
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
database:
  driver: postgres
upload:
  dir: /var/spool/catalog
  max_file_size_mb: 10
object_store:
  endpoint: minio:9000
  default_bucket: landing
log:
  format: json
`)
	t.Setenv("PORT", "9100")
	t.Setenv("DATABASE_URL", "postgres://catalog@db/catalog")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "/var/spool/catalog", cfg.Upload.Dir)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSizeBytes())
	assert.True(t, cfg.ObjectStore.Enabled())
	assert.Equal(t, "landing", cfg.ObjectStore.DefaultBucket)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown driver", "database:\n  driver: oracle\n"},
		{"negative size", "upload:\n  max_file_size_mb: -5\n"},
		{"bad log format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid), err.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
