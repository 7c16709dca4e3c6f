package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// APIError is a non-2xx answer from an upstream. Message is the server's
// own message, unmodified.
type APIError struct {
	Upstream   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: unexpected status %d %s", e.Upstream, e.StatusCode, http.StatusText(e.StatusCode))
}

func newAPIError(upstream string, status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	apiErr := &APIError{Upstream: upstream, StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
