package clients

import (
	"errors"
	"fmt"
)

// HTTPStatusError is returned for a non-2xx backend response. The body is
// kept because the backend reports business errors as JSON payloads.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("backend request failed with status %d: %s", e.StatusCode, string(e.Body))
}

// ErrorBody returns the response body carried by err when the backend
// answered with a non-2xx status and a non-empty body
func ErrorBody(err error) ([]byte, bool) {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) && len(statusErr.Body) > 0 {
		return statusErr.Body, true
	}
	return nil, false
}
