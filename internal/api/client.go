// Package api is the HTTP client for the finance REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/config"
	"github.com/Veraticus/finflow/internal/session"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to <base>/api on behalf of a session.
type Client struct {
	http    *http.Client
	session *session.Session
	logger  *slog.Logger

	Auth         *AuthService
	Accounts     *AccountsService
	Transactions *TransactionsService
	Categories   *CategoriesService
	Dashboard    *DashboardService
	Reports      *ReportsService

	baseURL    string
	retryDelay time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped to add authentication.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRetryDelay sets the wait before the single rate-limit retry of the
// account list.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// New creates a client for cfg. Requests read the bearer token from sess, and
// a 401 response clears it.
func New(cfg config.API, sess *session.Session, opts ...Option) *Client {
	if sess == nil {
		sess = session.New(session.NewMemoryStore())
	}
	c := &Client{
		session:    sess,
		baseURL:    config.NormalizeBaseURL(cfg.BaseURL) + "/api",
		retryDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = common.Component(c.logger, "api")

	hc := &http.Client{Timeout: cfg.Timeout}
	if c.http != nil {
		copied := *c.http
		hc = &copied
		if cfg.Timeout > 0 {
			hc.Timeout = cfg.Timeout
		}
	}
	hc.Transport = &bearerTransport{base: hc.Transport, source: sess}
	c.http = hc

	c.Auth = &AuthService{client: c}
	c.Accounts = &AccountsService{client: c}
	c.Transactions = &TransactionsService{client: c}
	c.Categories = &CategoriesService{client: c}
	c.Dashboard = &DashboardService{client: c}
	c.Reports = &ReportsService{client: c}
	return c
}

// BaseURL returns the API root including the /api prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, reader, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = newRequestID()
		req.Header.Set(RequestIDHeader, requestID)
	}
	hadToken := c.session.Authenticated()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newError(method, "/"+strings.TrimLeft(path, "/"), resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && hadToken {
			c.logger.Info("token rejected, clearing session", "path", path)
			if clearErr := c.session.Clear(context.WithoutCancel(ctx)); clearErr != nil {
				c.logger.Warn("failed to clear session", "error", clearErr)
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
