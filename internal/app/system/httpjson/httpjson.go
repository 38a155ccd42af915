// Package httpjson is the single place requests are decoded and responses
// written. Every error leaves the API in the same envelope:
//
//	{"error": ..., "message": ..., "details": ..., "status_code": ..., "timestamp": ...}
//
// Handlers never call json.NewEncoder or http.Error directly.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies. Large uploads go through dedicated
// media URLs, never through the JSON API.
const maxBodyBytes = 1 << 20

// Error codes used in the envelope's "error" field.
const (
	CodePermissionDenied = "permission_denied"
	CodeNotFound         = "not_found"
	CodeValidation       = "validation_error"
	CodeAuthentication   = "authentication_failed"
	CodeConflict         = "conflict"
	CodeInternal         = "internal_error"
)

// ErrorBody is the wire format for every non-2xx response.
type ErrorBody struct {
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// Decode reads a JSON request body into dst. The body is size-limited;
// syntax and type errors come back as a single descriptive error for the
// 400 response.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return nil
}

// Respond writes v as JSON with the given status. A nil v writes just the
// status code.
func Respond(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes the error envelope.
func Fail(w http.ResponseWriter, status int, code, message string, details any) {
	Respond(w, status, ErrorBody{
		Error:      code,
		Message:    message,
		Details:    details,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	})
}

// PermissionDenied writes a 403. The internal deny reason is logged, not
// sent to the client.
func PermissionDenied(w http.ResponseWriter, logger *zap.Logger, reason string) {
	if logger != nil {
		logger.Info("permission denied", zap.String("reason", reason))
	}
	Fail(w, http.StatusForbidden, CodePermissionDenied, "you do not have permission to perform this action", nil)
}

// NotFound writes a 404 for a missing or invisible resource.
func NotFound(w http.ResponseWriter) {
	Fail(w, http.StatusNotFound, CodeNotFound, "resource not found", nil)
}

// ValidationError writes a 400 with per-field details.
func ValidationError(w http.ResponseWriter, details any) {
	Fail(w, http.StatusBadRequest, CodeValidation, "validation failed", details)
}

// BadRequest writes a 400 with a single message.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, CodeValidation, message, nil)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, CodeAuthentication, message, nil)
}

// Conflict writes a 409 for duplicate-key violations.
func Conflict(w http.ResponseWriter, message string) {
	Fail(w, http.StatusConflict, CodeConflict, message, nil)
}

// Internal logs err and writes an opaque 500.
func Internal(w http.ResponseWriter, logger *zap.Logger, err error) {
	if logger != nil {
		logger.Error("internal error", zap.Error(err))
	}
	Fail(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
}
