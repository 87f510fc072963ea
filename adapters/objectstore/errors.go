package objectstore

import (
	"context"
	"errors"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"

	apperrors "datacatalog/internal/errors"
)

// mapError translates a MinIO SDK error into a coded application error
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Wrap(err, msg)
	}

	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey":
			return &apperrors.AppError{Code: apperrors.CodeNotFound, Message: msg, Cause: err}
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return &apperrors.AppError{Code: apperrors.CodeInvalidInput, Message: msg, Cause: err}
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return &apperrors.AppError{Code: apperrors.CodeNotFound, Message: msg, Cause: err}
		case http.StatusBadRequest:
			return &apperrors.AppError{Code: apperrors.CodeInvalidInput, Message: msg, Cause: err}
		}
	}

	return &apperrors.AppError{Code: apperrors.CodeExternalService, Message: msg, Cause: err}
}
