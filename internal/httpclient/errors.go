package httpclient

import (
	"errors"
	"fmt"
)

// Error is a client-side failure that happened before or after the round trip.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(message string) error {
	return &Error{Message: message}
}

func WrapError(err error, message string) error {
	return &Error{Message: message, Err: err}
}

// NetworkError is a transport failure: dial, TLS, timeout or a truncated body.
type NetworkError struct {
	URL string
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a completed exchange with a non-2xx status.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

// maxErrorBody bounds how much of a response body an HTTPError carries.
const maxErrorBody = 512

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

func newHTTPError(statusCode int, body []byte, url string) *HTTPError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPError{StatusCode: statusCode, URL: url, Body: string(body)}
}

// StatusCode returns the HTTP status carried by err, or 0 when err holds no *HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
