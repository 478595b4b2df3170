package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse reports a completion that carried no text
var ErrEmptyResponse = errors.New("chat completion returned no text")

// StatusError is a non-2xx answer from the completion endpoint
type StatusError struct {
	StatusCode int
	err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d: %v", e.StatusCode, e.err)
}

func (e *StatusError) Unwrap() error {
	return e.err
}

// IsTransient reports whether the failure may go away later (rate limit or
// server side). Callers use it for messaging only; nothing here retries.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
}
