// Package backend wraps HTTP access to the GrindSup REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/pkg/config"
	"github.com/grindsup/trainer-gateway/pkg/middleware/requestid"
)

// Observer receives timing for every backend call.
type Observer interface {
	ObserveUpstream(method, route string, status int, duration time.Duration)
}

// Request describes one backend call. Route is a low-cardinality label for
// metrics such as "/turnos/:id"; Path is the concrete path.
type Request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Body   interface{}
}

// Client issues JSON requests against the configured base URL.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	headers  http.Header
	logger   *zap.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver registers a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a client from configuration.
func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		raw = config.DefaultBackendBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base url %q must be absolute", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		headers: headers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do performs the request and decodes a JSON response into out when out is not nil.
// Non-2xx answers are returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.send(ctx, req, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.Method, req.Path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// Get is a shorthand for a GET decoded into out.
func (c *Client) Get(ctx context.Context, path, route string, query url.Values, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Route: route, Query: query}, out)
}

// Stream performs the request and hands back the raw body for pass-through
// downloads. The caller must close the returned reader.
func (c *Client) Stream(ctx context.Context, req Request) (io.ReadCloser, string, error) {
	resp, err := c.send(ctx, req, "*/*")
	if err != nil {
		return nil, "", err
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) send(ctx context.Context, req Request, accept string) (*http.Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	route := req.Route
	if route == "" {
		route = req.Path
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", accept)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		httpReq.Header.Set(requestid.HeaderKey, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.observe(req.Method, route, 0, duration)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("backend request failed", zap.String("method", req.Method), zap.String("route", route), zap.Error(err))
		return nil, &Error{Method: req.Method, Path: req.Path, Err: err}
	}
	c.observe(req.Method, route, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		apiErr := &Error{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw),
			Body:       raw,
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			c.logger.Warn("backend returned error", zap.String("method", req.Method), zap.String("route", route), zap.Int("status", resp.StatusCode))
		}
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) observe(method, route string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, route, status, duration)
	}
}

// Error is a failed backend call. StatusCode is zero for transport failures.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// MessageOf returns the server supplied message, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

var messageKeys = []string{"message", "mensaje", "error", "detail", "details", "msg"}

// extractMessage digs a human readable message out of an error body. Plain-text
// bodies are used as is when short.
func extractMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	var payload interface{}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		if len(trimmed) <= 200 && !bytes.HasPrefix(trimmed, []byte("<")) {
			return string(trimmed)
		}
		return ""
	}
	return messageFrom(payload)
}

func messageFrom(payload interface{}) string {
	switch v := payload.(type) {
	case string:
		return strings.TrimSpace(v)
	case []interface{}:
		for _, item := range v {
			if msg := messageFrom(item); msg != "" {
				return msg
			}
		}
	case map[string]interface{}:
		for _, key := range messageKeys {
			if inner, ok := v[key]; ok {
				if msg := messageFrom(inner); msg != "" {
					return msg
				}
			}
		}
		if errs, ok := v["errors"]; ok {
			return messageFrom(errs)
		}
		if field, ok := v["defaultMessage"]; ok {
			return messageFrom(field)
		}
	}
	return ""
}
