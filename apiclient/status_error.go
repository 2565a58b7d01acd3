package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
	cause      error
}

func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{
		StatusCode: code,
		Message:    backendMessage(code, body),
		cause:      sentinelFor(code),
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.cause
}

// UserMessage is the backend's own explanation, suitable for display.
func (e *StatusError) UserMessage() string {
	return e.Message
}

func sentinelFor(code int) error {
	switch code {
	case http.StatusBadRequest:
		return errs.ErrBadRequest
	case http.StatusUnauthorized:
		return errs.ErrSessionExpired
	case http.StatusForbidden:
		return errs.ErrForbidden
	case http.StatusNotFound:
		return errs.ErrNotFound
	default:
		return nil
	}
}

// backendMessage extracts {"message": ...} or {"error": ...}, falling back to the raw text
// and finally the status text.
func backendMessage(code int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 512 {
		return text
	}
	return http.StatusText(code)
}
