package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"datacatalog/adapters/objectstore"
	"datacatalog/internal/errors"
	"datacatalog/internal/migration"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig       `yaml:"server"`
	Database    DatabaseConfig     `yaml:"database"`
	Upload      UploadConfig       `yaml:"upload"`
	ObjectStore objectstore.Config `yaml:"object_store"`
	Classifier  ClassifierConfig   `yaml:"classifier"`
	Profiling   ProfilingConfig    `yaml:"profiling"`
	Log         LogConfig          `yaml:"log"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	BindAddr        string        `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port            string        `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.BindAddr + ":" + s.Port
}

// DatabaseConfig selects the catalog store. An empty DSN disables persistence.
type DatabaseConfig struct {
	Driver      string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	DSN         string `yaml:"-" env:"DATABASE_URL"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// Enabled reports whether a catalog database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.DSN != ""
}

// UploadConfig holds upload staging and analysis limits
type UploadConfig struct {
	Dir            string  `yaml:"dir" env:"UPLOAD_DIR" env-default:"uploads"`
	MaxFileSizeMB  float64 `yaml:"max_file_size_mb" env:"UPLOAD_MAX_FILE_SIZE_MB" env-default:"50"`
	MaxConcurrent  int64   `yaml:"max_concurrent" env:"UPLOAD_MAX_CONCURRENT" env-default:"4"`
	KeepStagedFile bool    `yaml:"keep_staged_files" env:"UPLOAD_KEEP_STAGED_FILES" env-default:"false"`
}

// MaxFileSizeBytes returns the upload ceiling in bytes
func (u UploadConfig) MaxFileSizeBytes() int64 {
	return int64(u.MaxFileSizeMB * 1024 * 1024)
}

// ClassifierConfig points at an optional YAML file of extra sensitivity rules
type ClassifierConfig struct {
	RulesFile string `yaml:"rules_file" env:"CLASSIFIER_RULES_FILE"`
}

// ProfilingConfig tunes the column profiler
type ProfilingConfig struct {
	PreviewRows   int `yaml:"preview_rows" env:"PROFILING_PREVIEW_ROWS" env-default:"5"`
	TopValues     int `yaml:"top_values" env:"PROFILING_TOP_VALUES" env-default:"5"`
	PIISampleSize int `yaml:"pii_sample_size" env:"PROFILING_PII_SAMPLE_SIZE" env-default:"100"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads configuration from the YAML file at path, when given, with
// environment variable overrides, and validates it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := migration.DialectFor(c.Database.Driver); err != nil {
		return err
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("upload.max_file_size_mb must be positive, got %v", c.Upload.MaxFileSizeMB))
	}
	if c.Upload.MaxConcurrent < 1 {
		return errors.ConfigInvalid("upload.max_concurrent must be at least 1")
	}
	if c.Profiling.PreviewRows < 0 || c.Profiling.TopValues < 0 || c.Profiling.PIISampleSize < 1 {
		return errors.ConfigInvalid("profiling limits must be non-negative and pii_sample_size at least 1")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}
	return nil
}
