package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"datacatalog/adapters/excel"
	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/logger"
	"datacatalog/ports"
)

// Config holds the connection settings of an S3-compatible object store
type Config struct {
	Endpoint      string `yaml:"endpoint" env:"OBJECT_STORE_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"OBJECT_STORE_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"OBJECT_STORE_SECRET_KEY"`
	UseSSL        bool   `yaml:"use_ssl" env:"OBJECT_STORE_USE_SSL" env-default:"false"`
	Region        string `yaml:"region" env:"OBJECT_STORE_REGION"`
	DefaultBucket string `yaml:"default_bucket" env:"OBJECT_STORE_BUCKET"`
}

// Enabled reports whether an endpoint is configured
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

// Source downloads uploaded spreadsheets from MinIO or S3 for analysis
type Source struct {
	client *miniogo.Client
	log    zerolog.Logger
}

// New creates a Source. No request is made until the first Fetch.
func New(cfg Config) (*Source, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, apperrors.ExternalServiceError("object store", err)
	}
	return &Source{client: client, log: logger.Component("ObjectSource")}, nil
}

// Fetch copies bucket/key into dir under a unique name that keeps the key's extension.
// Keys with an unsupported extension are rejected before any download.
func (s *Source) Fetch(ctx context.Context, bucket, key, dir string) (string, error) {
	if !excel.IsSupported(excel.Extension(key)) {
		return "", apperrors.UnsupportedFormat(excel.Extension(key))
	}

	localPath := filepath.Join(dir, fmt.Sprintf("%s_%s", uuid.NewString()[:8], path.Base(key)))
	if err := s.client.FGetObject(ctx, bucket, key, localPath, miniogo.GetObjectOptions{}); err != nil {
		os.Remove(localPath)
		return "", mapError(err, fmt.Sprintf("failed to fetch %s/%s", bucket, key))
	}

	s.log.Debug().Str("bucket", bucket).Str("key", key).Str("path", localPath).Msg("object fetched")
	return localPath, nil
}

// ParseObjectURL splits "s3://bucket/key" into bucket and key. A URL without a
// scheme is read as "bucket/key"; defaultBucket is used when only a key is given.
func ParseObjectURL(raw, defaultBucket string) (string, string, error) {
	trimmed := strings.TrimPrefix(raw, "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found {
		bucket, key = defaultBucket, trimmed
	}
	if bucket == "" || key == "" {
		return "", "", apperrors.InvalidInput(fmt.Sprintf("invalid object reference: %q", raw))
	}
	return bucket, key, nil
}

var _ ports.ObjectSource = (*Source)(nil)
