package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalog/domain/catalog"
	"datacatalog/internal/config"
	"datacatalog/internal/errors"
	"datacatalog/internal/testkit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{BindAddr: "127.0.0.1", Port: "0"},
		Database: config.DatabaseConfig{Driver: "sqlite", AutoMigrate: true},
		Upload: config.UploadConfig{
			Dir:           t.TempDir(),
			MaxFileSizeMB: 1,
			MaxConcurrent: 2,
		},
		Profiling: config.ProfilingConfig{PreviewRows: 5, TopValues: 5, PIISampleSize: 100},
		Log:       config.LogConfig{Level: "error", Format: "json"},
	}
}

func TestNew_WithoutDatabase(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	defer c.Shutdown(ctx)

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Assets)
	assert.Nil(t, c.Objects)
	require.NotNil(t, c.Analyzer)
	assert.NotNil(t, c.HTTPServer().Handler())

	_, err = c.Analyzer.GetAsset(ctx, "anything")
	assert.True(t, errors.IsNotFound(err))
}

func TestNew_ImportWithCustomRules(t *testing.T) {
	ctx := context.Background()
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`
name_rules:
  - category: PHI
    keywords: [genome]
`), 0o644))

	cfg := testConfig(t)
	cfg.Database.DSN = ":memory:"
	cfg.Classifier.RulesFile = rulesPath

	c, err := New(ctx, cfg)
	require.NoError(t, err)
	defer c.Shutdown(ctx)
	require.NotNil(t, c.DB)

	path := testkit.WriteCSV(t, "samples.csv", [][]string{
		{"genome_id", "batch"},
		{"G-001", "7"},
		{"G-002", "8"},
	})

	asset, err := c.Analyzer.ImportFile(ctx, path, catalog.ImportOverrides{})
	require.NoError(t, err)
	require.NotEmpty(t, asset.ID)
	assert.True(t, asset.IsSensitive)
	assert.Equal(t, catalog.AccessRestricted, asset.AccessLevel)

	stored, err := c.Analyzer.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "samples", stored.Name)
	require.Len(t, stored.Fields, 2)
	assert.Equal(t, "genome_id", stored.Fields[0].FieldName)
	assert.True(t, stored.Fields[0].ContainsPHI)
	assert.Equal(t, catalog.SensitivityCritical, stored.Fields[0].SensitivityLevel)
	assert.False(t, stored.Fields[1].ContainsPHI)
}

func TestNew_InvalidRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Classifier.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestAnalysisConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Profiling.PreviewRows = 2
	cfg.Profiling.PIISampleSize = 10

	analysisConfig, err := AnalysisConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, analysisConfig.Excel.ProfilingConfig.PreviewRows)
	assert.Equal(t, 10, analysisConfig.Excel.ProfilingConfig.PIISampleSize)
	assert.Equal(t, int64(1024*1024), analysisConfig.MaxFileSize)
	assert.NotEmpty(t, analysisConfig.Rules.NameRules)
}
