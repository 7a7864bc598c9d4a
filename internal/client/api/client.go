package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/errs"
)

const (
	defaultTimeout = 30 * time.Second
	// error bodies larger than this are not worth decoding
	maxErrorBody = 64 << 10
)

// Client talks to the dashboard REST API. Every non-2xx response and every
// network failure comes back as *errs.TransportError.
type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	password string
	limiter  *rate.Limiter
	log      *slog.Logger
}

type Option func(*Client)

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithDashboardPassword unlocks password-protected dashboards.
func WithDashboardPassword(password string) Option {
	return func(c *Client) { c.password = password }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes the response into out, unwrapping the
// {success, data} envelope when present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errs.NewTransportError(0, "", fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.password != "" {
		req.Header.Set(dto.DashboardPasswordHeader, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed", "method", method, "path", path, "error", err)
		return errs.NewTransportError(0, "", fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return decodeError(resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewTransportError(resp.StatusCode, "", fmt.Sprintf("read response: %v", err))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeBody(raw, out)
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeBody(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if len(env.Data) == 0 {
			return nil
		}
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads {code, message} or {error: {message}}. A body with
// neither leaves the HTTP status text as the message.
func decodeError(status int, raw []byte) error {
	var body struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return errs.NewTransportError(status, "", "")
	}

	msg := body.Message
	if len(body.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		var plain string
		switch {
		case json.Unmarshal(body.Error, &nested) == nil && nested.Message != "":
			msg = nested.Message
			if body.Code == "" {
				body.Code = nested.Code
			}
		case json.Unmarshal(body.Error, &plain) == nil && plain != "":
			msg = plain
		}
	}
	return errs.NewTransportError(status, body.Code, msg)
}
