package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	app_errors "mediai/backend/internal/errors"
	"mediai/backend/internal/stream"
)

// This file contains shared DTOs for API responses and helpers for sending
// consistent HTTP responses.

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by operations that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps business-layer errors to HTTP status codes and writes a JSON error.
// Detailed errors are logged; clients only see the message the service chose
// for them, or a generic one.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = clientMessage(err, app_errors.ErrValidation, "Invalid request")
	case errors.Is(err, app_errors.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
		message = "Not authenticated"
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusForbidden
		message = clientMessage(err, app_errors.ErrPermission, "Access denied")
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = clientMessage(err, app_errors.ErrNotFound, "The requested resource was not found.")
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = clientMessage(err, app_errors.ErrConflict, "A conflict occurred with the current state of the resource.")
	case errors.Is(err, app_errors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		message = clientMessage(err, app_errors.ErrRateLimited, "Too many requests")
	default:
		// Any unhandled error is considered an internal server error.
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	event := log.Ctx(r.Context()).Warn()
	if statusCode >= http.StatusInternalServerError {
		event = log.Ctx(r.Context()).Error()
	}
	event.Int("status_code", statusCode).Str("client_message", message).Err(err).Msg("Responding with error")

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// clientMessage strips the sentinel prefix from err, leaving the text the
// service wrote for the client.
func clientMessage(err, sentinel error, fallback string) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" || msg == err.Error() {
		return fallback
	}
	return msg
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondWithStream sends text as a chunked text/plain body. Headers are
// committed before the first chunk, so failures after that point can only be
// reported inside the body.
func respondWithStream(ctx context.Context, w http.ResponseWriter, emitter *stream.Emitter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if err := emitter.Emit(ctx, w, text); err != nil {
		// This is often an expected I/O error if the client closes the connection.
		log.Ctx(ctx).Warn().Err(err).Msg("Reply stream ended early")
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("Rejected request body")
		return fmt.Errorf("%w: Invalid request body", app_errors.ErrValidation)
	}
	return nil
}
