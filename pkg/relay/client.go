package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/processlens/gateway/pkg/tempstore"
)

// FileFieldName is the multipart field name agreed with the analytics
// backend. Contract constant, not user-configurable.
const FileFieldName = "file"

// processPath is the backend's analysis endpoint.
const processPath = "/process"

// defaultTimeout bounds a relay attempt so a stalled backend surfaces as a
// transport failure instead of an indefinite hang.
const defaultTimeout = 120 * time.Second

// Client relays staged files to the analytics backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("relay: WithTimeout requires a positive duration")
	}
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client. Intended for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a relay client for the given backend base URL.
// Misconfiguration is reported here, before any request is attempted.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBackendURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackendURL, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Relay streams the staged file as a multipart body to the backend with the
// caller's bearer token attached. One attempt, no retries. Any HTTP response
// from the backend is returned as a Reply regardless of status; everything
// else is a *TransportError.
func (c *Client) Relay(ctx context.Context, staged *tempstore.StagedFile, bearerToken string) (*Reply, error) {
	if staged == nil {
		return nil, ErrNilStagedFile
	}

	src, err := staged.Open()
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = src.Close() }()

	// Stream the multipart body through a pipe so the file is never
	// buffered in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile(FileFieldName, staged.Name())
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPath, pr)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("reading backend response: %w", err)}
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("malformed backend response body: %w", err)}
	}

	return &Reply{StatusCode: resp.StatusCode, Envelope: envelope}, nil
}
