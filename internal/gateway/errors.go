package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingToken is returned when the gateway is created without a token.
var ErrMissingToken = errors.New("github token is empty")

// APIError is returned for every response with a status code of 400 or above.
// Body holds the decoded JSON error document, or the raw text when it was not JSON.
type APIError struct {
	StatusCode int
	Reason     string
	Body       any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Reason, formatBody(e.Body))
}

func formatBody(body any) string {
	if text, ok := body.(string); ok {
		return text
	}
	if data, err := json.Marshal(body); err == nil {
		return string(data)
	}
	return fmt.Sprint(body)
}

// Message returns the "message" field GitHub puts in its error documents, if any.
func (e *APIError) Message() string {
	if doc, ok := e.Body.(map[string]any); ok {
		if msg, ok := doc["message"].(string); ok {
			return msg
		}
	}
	return ""
}

// TransportError wraps failures that happened before a response was received,
// such as DNS errors, timeouts, resets and context cancellation.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsValidationFailed reports whether err is an APIError with status 422.
func IsValidationFailed(err error) bool {
	return hasStatus(err, http.StatusUnprocessableEntity)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
