package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/validation"
)

// writeJSON writes a JSON response and returns any encoding error.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// errorResponse writes {"error": message} with the given status
func errorResponse(w http.ResponseWriter, statusCode int, message string) error {
	return writeJSON(w, statusCode, map[string]string{"error": message})
}

// validationFailed writes the pre-import rejection body
func validationFailed(w http.ResponseWriter, issues []string) error {
	return writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "File validation failed",
		"issues": issues,
	})
}

// statusFor maps an application error code onto an HTTP status
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound, apperrors.CodeFileNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidationError, apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFormat:
		return http.StatusBadRequest
	case apperrors.CodeCorruptFile:
		return http.StatusUnprocessableEntity
	case apperrors.CodeExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError renders err as JSON. Validation rejections carry their issue list;
// internal failures only expose the outer message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var issues validation.IssuesError
	if stderrors.As(err, &issues) {
		_ = validationFailed(w, issues)
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		var appErr *apperrors.AppError
		if stderrors.As(err, &appErr) {
			message = appErr.Message
		} else {
			message = "Internal server error"
		}
	}
	_ = writeJSON(w, status, map[string]string{
		"error": message,
		"code":  apperrors.GetCode(err),
	})
}
