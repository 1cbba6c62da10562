// Package response writes the JSON envelopes returned by the HTTP API.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Body is the success envelope. Total is only set on paginated listings.
type Body struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Total   *int64 `json:"total,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the failure envelope.
type ErrorBody struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

// OK writes a 200 envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Body{Message: message, Data: data})
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Body{Message: message, Data: data})
}

// List writes a 200 envelope carrying the total row count.
func List(w http.ResponseWriter, message string, data any, total int64) {
	JSON(w, http.StatusOK, Body{Message: message, Data: data, Total: &total})
}

// Error writes a failure envelope. Errors is always an array, never null.
func Error(w http.ResponseWriter, status int, message string, errs ...FieldError) {
	if errs == nil {
		errs = []FieldError{}
	}
	JSON(w, status, ErrorBody{Message: message, Errors: errs})
}
