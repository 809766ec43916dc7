// Package http provides the JSON API server and its handlers.
//
// This file implements a small builder for JSON responses and the mapping
// from domain errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/middleware/trace"
	"networth/internal/records"
	"networth/internal/services"
)

// errBadRequest marks malformed input that never reached the domain layer.
var errBadRequest = errors.New("bad request")

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body. A nil body writes no
// content.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to w.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	payload, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(payload)
	_, _ = w.Write([]byte("\n"))
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse creates an error response carrying message.
func ErrorResponse(r *http.Request, statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(ErrorBody{Error: message, RequestID: trace.GetRequestID(r.Context())})
}

var validationErrors = []error{
	errBadRequest,
	services.ErrEmptyPatch,
	core.ErrZeroDate,
	core.ErrInvalidAmount,
	core.ErrNonPositiveAmount,
	core.ErrNegativeRate,
	core.ErrInvalidPlatform,
	core.ErrInvalidTxType,
	core.ErrInvalidCategory,
}

// statusFor maps an error returned by the query or mutation surface to a
// status code and the log error type.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound, log.ErrorTypeNotFound
	case errors.Is(err, records.ErrDuplicateDate):
		return http.StatusConflict, log.ErrorTypeConflict
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, log.ErrorTypeValidation
		}
	}
	return http.StatusInternalServerError, log.ErrorTypeInternal
}

// writeError logs err and writes the mapped error response. Messages of
// server errors are not exposed.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, errorType := statusFor(err)
	logger := log.FromContext(r.Context())

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error"
		log.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err, errorType, operation, nil)
	} else {
		logger.InfoContext(r.Context(), "Request rejected",
			log.FieldOperation, operation,
			log.FieldStatusCode, status,
			log.FieldError, err.Error())
	}
	ErrorResponse(r, status, message).Write(w)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	NewJSONResponse().Status(status).Body(body).Write(w)
}
