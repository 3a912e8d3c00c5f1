package restclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/dockhand/internal/adapters/dto"
	"github.com/bnema/dockhand/internal/domain"
)

// APIError is a failed REST call.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Text() != "" {
		e.Message = resp.Text()
		e.Code = resp.Code
		return e
	}

	e.Message = strings.TrimSpace(string(body))
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// BackendMessage returns the message field of the error body.
func (e *APIError) BackendMessage() string {
	return e.Message
}

// Unwrap maps well-known statuses onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrResourceNotFound
	}
	return nil
}
