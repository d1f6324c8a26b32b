// Package backend is the HTTP client of the chat backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/service/reply"
)

var tracer = otel.Tracer("github.com/zhouzirui/daptic/internal/client/backend")

// Client calls /api/generate, /api/history and /api/current_user. Requests
// carry the user cookie through a cookie jar.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its jar is kept if set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.httpClient.Jar
		}
		c.httpClient = hc
	}
}

// New returns a client for the backend at baseURL. username, when not
// empty, is sent as the user cookie.
func New(baseURL string, username string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if username != "" {
		jar.SetCookies(u, []*http.Cookie{{Name: chat.UserCookie, Value: username, Path: "/"}})
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

type historyResponse struct {
	History []chat.Message `json:"history"`
	Error   string         `json:"error"`
}

type currentUserResponse struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

// Reply implements reply.Source.
func (c *Client) Reply(ctx context.Context, prompt string) (string, error) {
	return c.Generate(ctx, prompt)
}

// Generate posts prompt and returns the reply text. A non-2xx answer yields
// *reply.StatusError; a 2xx answer without reply yields reply.ErrNoReply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "backend.generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	payload, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var out generateResponse
	status, err := c.do(ctx, http.MethodPost, "/api/generate", payload, &out)
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if out.Reply == "" {
		return "", reply.ErrNoReply
	}
	return out.Reply, nil
}

// History returns the stored conversation of the current user.
func (c *Client) History(ctx context.Context) ([]chat.Message, error) {
	ctx, span := tracer.Start(ctx, "backend.history", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var out historyResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/history", nil, &out); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out.History, nil
}

// CurrentUser returns the username the backend resolved for this client.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	var out currentUserResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/current_user", nil, &out); err != nil {
		return "", err
	}
	return out.Username, nil
}

// do sends one request and decodes the JSON body into out. Non-2xx answers
// are returned as *reply.StatusError with the body's error field.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) (int, error) {
	endpoint := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &failure)
		return resp.StatusCode, &reply.StatusError{Status: resp.StatusCode, Message: failure.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("invalid response body: %w", err)
	}
	return resp.StatusCode, nil
}
