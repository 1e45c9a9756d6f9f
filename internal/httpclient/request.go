package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// HTTPRequest describes one outgoing request. A Body that implements io.Seeker
// is rewound before each attempt so it can be retried.
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    io.Reader
	Context context.Context
}

func (r *HTTPRequest) context() context.Context {
	if r.Context == nil {
		return context.Background()
	}
	return r.Context
}

// HTTPResponse is a fully read response. Only the first value of each header is kept.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RetryAfter parses the Retry-After header as delta-seconds or an HTTP date.
// It returns 0 when the header is absent, malformed or already in the past.
func (r *HTTPResponse) RetryAfter(now time.Time) time.Duration {
	v := r.Headers[http.CanonicalHeaderKey("Retry-After")]
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
