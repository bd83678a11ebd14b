package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/authoring-labs/debugtags/internal/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tagsPath   = "api/tags"
	assetsPath = "api/assets"

	defaultContentPath = "api/content"
	defaultTimeout     = 30 * time.Second
)

// Client talks to the host REST API.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	contentPath string
	userAgent   string
	timeout     time.Duration
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		cl.logger = logging.OrNop(l)
	}
}

// WithContentPath overrides the content API path (default "api/content").
func WithContentPath(p string) Option {
	return func(cl *Client) {
		if p != "" {
			cl.contentPath = strings.Trim(p, "/")
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// New creates a Client for the host at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing API URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("API URL %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL:     u,
		httpClient:  http.DefaultClient,
		contentPath: defaultContentPath,
		userAgent:   "debugtags",
		timeout:     defaultTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTags fetches every tag, filtered by q when it is non-empty.
func (c *Client) ListTags(ctx context.Context, q TagQuery) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, c.endpoint(q.Values(), tagsPath), nil, &tags); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// ListCourses fetches every content item of type course.
func (c *Client) ListCourses(ctx context.Context) ([]Item, error) {
	q := url.Values{"_type": []string{TypeCourse}}
	var items []Item
	if err := c.do(ctx, http.MethodGet, c.endpoint(q, c.contentPath), nil, &items); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return items, nil
}

// ListAssets fetches every asset.
func (c *Client) ListAssets(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.do(ctx, http.MethodGet, c.endpoint(nil, assetsPath), nil, &items); err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	return items, nil
}

// RenameTag sets the title of tag id.
func (c *Client) RenameTag(ctx context.Context, id, title string) error {
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPatch, c.endpoint(nil, tagsPath, id), body, nil); err != nil {
		return fmt.Errorf("renaming tag %s: %w", id, err)
	}
	return nil
}

// TransferTag moves everything tagged with id onto destID. The source tag
// is kept.
func (c *Client) TransferTag(ctx context.Context, id, destID string) error {
	q := url.Values{"deleteSourceTag": []string{"false"}}
	body := map[string]string{"destId": destID}
	if err := c.do(ctx, http.MethodPost, c.endpoint(q, tagsPath, "transfer", id), body, nil); err != nil {
		return fmt.Errorf("transferring tag %s to %s: %w", id, destID, err)
	}
	return nil
}

// DeleteTag removes tag id.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.endpoint(nil, tagsPath, id), nil, nil); err != nil {
		return fmt.Errorf("deleting tag %s: %w", id, err)
	}
	return nil
}

// endpoint resolves path segments against the base URL.
func (c *Client) endpoint(q url.Values, segments ...string) *url.URL {
	u := c.baseURL.JoinPath(segments...)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("host request failed",
			zap.String("method", method),
			zap.String("path", u.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("host request",
		zap.String("method", method),
		zap.String("path", u.Path),
		zap.String("query", u.RawQuery),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, u.Path, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}
	return nil
}
