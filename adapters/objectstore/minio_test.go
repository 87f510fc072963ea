package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "datacatalog/internal/errors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no such key", miniogo.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, apperrors.CodeNotFound},
		{"404 without code", miniogo.ErrorResponse{StatusCode: http.StatusNotFound}, apperrors.CodeNotFound},
		{"bad bucket name", miniogo.ErrorResponse{Code: "InvalidBucketName", StatusCode: http.StatusBadRequest}, apperrors.CodeInvalidInput},
		{"wrapped", fmt.Errorf("get: %w", miniogo.ErrorResponse{Code: "NoSuchBucket"}), apperrors.CodeNotFound},
		{"access denied", miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, apperrors.CodeExternalService},
		{"network", errors.New("connection refused"), apperrors.CodeExternalService},
		{"canceled", context.Canceled, apperrors.CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err, "fetch failed")
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
			assert.Equal(t, tt.err, errors.Unwrap(err))
		})
	}

	assert.NoError(t, mapError(nil, "unused"))
}

func TestParseObjectURL(t *testing.T) {
	tests := []struct {
		raw, defaultBucket string
		bucket, key        string
		wantErr            bool
	}{
		{"s3://uploads/2026/q1.xlsx", "", "uploads", "2026/q1.xlsx", false},
		{"uploads/q1.csv", "", "uploads", "q1.csv", false},
		{"q1.csv", "landing", "landing", "q1.csv", false},
		{"q1.csv", "", "", "", true},
		{"s3://uploads/", "", "", "", true},
	}
	for _, tt := range tests {
		bucket, key, err := ParseObjectURL(tt.raw, tt.defaultBucket)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.bucket, bucket)
		assert.Equal(t, tt.key, key)
	}
}

func TestFetch_RejectsUnsupportedKey(t *testing.T) {
	source, err := New(Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	_, err = source.Fetch(context.Background(), "uploads", "notes/readme.md", t.TempDir())

	assert.True(t, apperrors.IsUnsupportedFormat(err))
}
