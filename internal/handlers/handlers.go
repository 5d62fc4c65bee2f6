// Package handlers holds the request plumbing shared by every HTTP handler
// package: body decoding, JSON responses and the enabled/timeout envelope.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/validation"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Base carries the settings every handler shares.
type Base struct {
	Name    string
	Enabled bool
	Timeout time.Duration
	Logger  logger.Logger
	Errors  *errors.ErrorHandler
}

func NewBase(name string, enabled bool, timeout time.Duration, log logger.Logger) Base {
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.With(map[string]interface{}{"handler": name})
	return Base{
		Name:    name,
		Enabled: enabled,
		Timeout: timeout,
		Logger:  log,
		Errors:  errors.NewErrorHandler(log),
	}
}

// Begin derives the request context. ok is false when the handler is disabled,
// in which case the 503 response has already been written.
func (b *Base) Begin(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc, bool) {
	if !b.Enabled {
		b.Logger.Info("Handler disabled by configuration", map[string]interface{}{
			"path": r.URL.Path,
		})
		b.Fail(w, r, errors.NewServiceUnavailableError(fmt.Sprintf("%s is disabled", b.Name)))
		return nil, nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), b.Timeout)
	return ctx, cancel, true
}

// Fail writes err as the JSON error envelope.
func (b *Base) Fail(w http.ResponseWriter, r *http.Request, err error) {
	b.Errors.HandleRequestError(w, r, RequestID(r), err)
}

// RequestID returns the id assigned by the RequestID middleware.
func RequestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// WriteJSON encodes v with status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeBody reads a JSON object from the request body. An empty body decodes
// to an empty map.
func DecodeBody(r *http.Request) (map[string]interface{}, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}
	body := map[string]interface{}{}
	if len(data) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}
	return body, nil
}

// DecodeAndValidate decodes the body and checks it against schema.
func DecodeAndValidate(r *http.Request, schema validation.JSONSchema) (map[string]interface{}, error) {
	body, err := DecodeBody(r)
	if err != nil {
		return nil, err
	}
	result, err := validation.Validate(body, schema)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationError("Input validation failed",
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}
	return body, nil
}

// String returns body[key] when it is a string.
func String(body map[string]interface{}, key string) string {
	s, _ := body[key].(string)
	return s
}
