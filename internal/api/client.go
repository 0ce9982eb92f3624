// Package api is the client for the contacts REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/contact"
)

// defaultTimeout is used when no timeout option is provided.
const defaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Query scopes a List call. Zero values mean unscoped.
type Query struct {
	Search   string
	Category contact.Category
}

// Values encodes the query as URL parameters, omitting empty ones.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != contact.CategoryNone {
		v.Set("category", string(q.Category))
	}
	return v
}

// Client calls the contacts backend over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
	newID   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parsing base url %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api: base url must be an absolute http(s) URL, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		timeout: defaultTimeout,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// listResponse is the body of GET /contacts. A missing contacts key is malformed.
type listResponse struct {
	Contacts *[]contact.Contact `json:"contacts"`
}

// saveResponse is the body of successful create and update calls.
type saveResponse struct {
	Message string          `json:"message"`
	Contact contact.Contact `json:"contact"`
}

// List fetches the contacts matching q.
func (c *Client) List(ctx context.Context, q Query) ([]contact.Contact, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/contacts", q.Values(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Contacts == nil {
		return nil, fmt.Errorf("%w: GET /contacts: missing contacts", ErrMalformedResponse)
	}
	return *resp.Contacts, nil
}

// Create submits a new contact built from d.
func (c *Client) Create(ctx context.Context, d contact.Draft) (contact.Contact, error) {
	var resp saveResponse
	if err := c.do(ctx, http.MethodPost, "/create_contact", nil, d, &resp); err != nil {
		return contact.Contact{}, err
	}
	return resp.Contact, nil
}

// Update replaces the editable fields of contact id with d.
func (c *Client) Update(ctx context.Context, id int64, d contact.Draft) (contact.Contact, error) {
	var resp saveResponse
	if err := c.do(ctx, http.MethodPatch, "/update_contact/"+strconv.FormatInt(id, 10), nil, d, &resp); err != nil {
		return contact.Contact{}, err
	}
	return resp.Contact, nil
}

// Delete removes contact id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/delete_contact/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// do performs one request. body is JSON-encoded when non-nil; a 2xx
// response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("api: building %s %s: %w", method, path, err)
	}
	reqID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("response", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// newError builds an *Error from a non-2xx response, extracting {message} when present.
func newError(method, path string, resp *http.Response) *Error {
	e := &Error{Method: method, Path: path, Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return e
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		e.Message = body.Message
	}
	return e
}
