package http

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/pkg/circuitbreaker"
)

// ServerError is returned by Client.Do for responses >= 500. The body has been read and closed.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: received status code %d", e.StatusCode)
}

// Client wraps http.Client with optional circuit breaking.
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client, e.g. with httptest.Server.Client().
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client. The breaker is only installed when cfg.Enabled.
func NewClient(cfg config.CircuitBreakerConfig, opts ...ClientOption) (*Client, error) {
	c := &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Enabled {
		breaker, err := createCircuitBreaker(cfg, circuitbreaker.OnStateChange(func(from, to circuitbreaker.State) {
			log.Printf("client circuit breaker: %s -> %s", from, to)
		}))
		if err != nil {
			return nil, err
		}
		c.breaker = breaker
	}
	return c, nil
}

// Do executes req. Transport errors, responses >= 500 (as *ServerError) and
// circuitbreaker.ErrCircuitOpen are returned as errors with a nil response.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	call := func() error {
		r, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			defer r.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(r.Body, 4<<10))
			return &ServerError{StatusCode: r.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		resp = r
		return nil
	}

	if c.breaker == nil {
		if err := call(); err != nil {
			return nil, err
		}
		return resp, nil
	}
	if err := c.breaker.Execute(call); err != nil {
		return nil, err
	}
	return resp, nil
}
