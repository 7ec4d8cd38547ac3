package anilist

import (
	"fmt"
	"net/http"
	"strings"
)

// TransportError is a non-2xx response or a failed round trip
type TransportError struct {
	StatusCode int   // HTTP status, 0 when the request never got a response
	Err        error // underlying failure, nil for status errors
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-empty top-level errors list in an otherwise successful response
type APIError struct {
	Messages []string
}

func newAPIError(errs []gqlError) *APIError {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return &APIError{Messages: msgs}
}

// Error joins all messages with "; "
func (e *APIError) Error() string {
	return strings.Join(e.Messages, "; ")
}
