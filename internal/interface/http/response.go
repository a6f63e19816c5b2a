package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// Error codes carried in APIError.Code.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidState     = "INVALID_STATE"
	CodeConflict         = "CONFLICT"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse represents a standard JSON response.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Offset    int       `json:"offset,omitempty"`
	HasMore   bool      `json:"has_more,omitempty"`
}

// MessageData is the payload of operations that only report a message.
type MessageData struct {
	Message string `json:"message"`
}

// writeJSON writes a successful JSON response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSONWithMeta(w, r, status, data, nil)
}

// writeJSONWithMeta writes a JSON response with custom metadata.
func writeJSONWithMeta(w http.ResponseWriter, r *http.Request, status int, data any, meta *ResponseMeta) {
	if meta == nil {
		meta = &ResponseMeta{}
	}
	meta.Timestamp = time.Now().UTC()
	meta.Version = "v1"

	encode(w, status, JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      meta,
		RequestID: getRequestID(r.Context()),
	})
}

// writeJSONError writes an error JSON response.
func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	encode(w, status, JSONResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Meta:      &ResponseMeta{Timestamp: time.Now().UTC()},
		RequestID: getRequestID(r.Context()),
	})
}

func encode(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// mapDomainError maps an application error to an HTTP status, an error code
// and the message shown to the client. Business failures carry their message
// verbatim; anything unrecognised becomes an opaque 500.
func mapDomainError(err error) (int, string, string) {
	switch {
	case shared.IsValidation(err):
		return http.StatusBadRequest, CodeValidation, shared.Message(err)
	case shared.IsNotFound(err):
		return http.StatusBadRequest, CodeNotFound, shared.Message(err)
	case shared.IsInvalidState(err):
		return http.StatusBadRequest, CodeInvalidState, shared.Message(err)
	case shared.IsAlreadyExists(err):
		return http.StatusConflict, CodeConflict, shared.Message(err)
	case shared.IsRetryable(err):
		return http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, CodeInternal, "An unexpected error occurred"
	}
}

// writeDomainError writes err using mapDomainError. Internal failures are
// logged since their details never reach the client.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", getRequestID(r.Context())),
			slog.Any("error", err),
		)
	}
	writeJSONError(w, r, status, code, message)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return shared.Validationf("http", "Decode", "request body too large")
		}
		return shared.Validationf("http", "Decode", "invalid JSON body: %v", err)
	}
	return nil
}
