package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient wraps net/http.Client with default headers, body limits and optional retries.
type HTTPClient struct {
	client  *http.Client
	config  HTTPClientConfig
	logger  zerolog.Logger
	retrier *retrier
}

// NewHTTPClient creates a client without retries; use HTTPClientBuilder to add them.
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
	}
	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, WrapError(err, "configuring HTTP/2 transport")
		}
	}

	client := &http.Client{Transport: transport, Timeout: config.Timeout}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !config.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if config.MaxRedirects > 0 && len(via) >= config.MaxRedirects {
			return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
		}
		return nil
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("follow_redirects", config.FollowRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{client: client, config: config, logger: logger}, nil
}

// Do performs req and returns any completed response regardless of status.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	if c.retrier != nil {
		return c.retrier.do(req, c.roundTrip)
	}
	return c.roundTrip(req)
}

// Send is Do with non-2xx responses converted into *HTTPError.
func (c *HTTPClient) Send(req *HTTPRequest) (*HTTPResponse, error) {
	resp, err := c.Do(req)
	if err != nil {
		return resp, err
	}
	if !resp.IsSuccess() {
		c.logger.Debug().Str("url", req.URL).Int("status_code", resp.StatusCode).Msg("Received non-2xx HTTP status")
		return resp, newHTTPError(resp.StatusCode, resp.Body, req.URL)
	}
	return resp, nil
}

// PostJSON marshals payload and posts it to url.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, payload any, headers map[string]string) (*HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(err, "encoding JSON payload")
	}
	return c.Send(&HTTPRequest{
		URL:     url,
		Method:  http.MethodPost,
		Headers: withContentType(headers, "application/json"),
		Body:    bytes.NewReader(body),
		Context: ctx,
	})
}

// PostForm posts form as application/x-www-form-urlencoded.
func (c *HTTPClient) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string) (*HTTPResponse, error) {
	return c.Send(&HTTPRequest{
		URL:     endpoint,
		Method:  http.MethodPost,
		Headers: withContentType(headers, "application/x-www-form-urlencoded"),
		Body:    strings.NewReader(form.Encode()),
		Context: ctx,
	})
}

// GetJSON fetches url and decodes a 2xx JSON body into out.
// A client-level Accept header takes precedence over application/json.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, out any) error {
	headers := map[string]string{}
	if !c.hasHeader("Accept") {
		headers["Accept"] = "application/json"
	}
	resp, err := c.Send(&HTTPRequest{
		URL:     url,
		Method:  http.MethodGet,
		Headers: headers,
		Context: ctx,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return WrapError(err, "decoding JSON response")
	}
	return nil
}

func (c *HTTPClient) hasHeader(key string) bool {
	for k := range c.config.Headers {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func withContentType(headers map[string]string, contentType string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	out["Content-Type"] = contentType
	for k, v := range headers {
		out[k] = v
	}
	return out
}

func (c *HTTPClient) roundTrip(req *HTTPRequest) (*HTTPResponse, error) {
	if seeker, ok := req.Body.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, WrapError(err, "rewinding request body")
		}
	}

	httpReq, err := http.NewRequestWithContext(req.context(), req.Method, req.URL, req.Body)
	if err != nil {
		return nil, WrapError(err, "building request")
	}
	for key, value := range c.config.Headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if httpReq.Header.Get("User-Agent") == "" && c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Op: req.Method, Err: err}
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.config.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, c.config.MaxBodySize)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &NetworkError{URL: req.URL, Op: "read body", Err: err}
	}

	out := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
		Body:       data,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			out.Headers[key] = values[0]
		}
	}
	return out, nil
}
