package spacex

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

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
)

// Fetcher is the read surface the rest of liftoff depends on.
// It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	QueryLaunches(ctx context.Context, q LaunchQuery, page, limit int) (Paginated[LaunchListItem], error)
	QueryLaunchesByIDs(ctx context.Context, ids []string) ([]LaunchListItem, error)
	GetLaunch(ctx context.Context, id string) (*Launch, error)
	GetRocket(ctx context.Context, id string) (*Rocket, error)
	GetLaunchpad(ctx context.Context, id string) (*Launchpad, error)
	LaunchHistory(ctx context.Context) ([]LaunchSummary, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

const (
	// DefaultBaseURL is the public v4 API root.
	DefaultBaseURL = "https://api.spacexdata.com/v4"

	defaultUserAgent      = "liftoff/0.1"
	defaultInitialBackoff = 500 * time.Millisecond
	defaultAttempts       = 3
	requestTimeout        = 15 * time.Second

	staticTTL = 24 * time.Hour
)

// APIError is returned when the API answers with a non-2xx status after
// all attempts are spent.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spacex api error %d: %s", e.Status, e.Body)
}

// Temporary reports whether the status is one the client retries.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client talks to the SpaceX HTTP API.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	userAgent      string
	initialBackoff time.Duration
	attempts       uint
	logger         *log.Logger
	cache          *responseCache
	now            func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithInitialBackoff sets the delay before the first retry.
func WithInitialBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.initialBackoff = d
		}
	}
}

// WithAttempts sets the total number of attempts per request.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = uint(n)
		}
	}
}

// WithLogger routes retry diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithClock overrides the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a Client rooted at baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:        base,
		http:           &http.Client{Timeout: requestTimeout},
		userAgent:      defaultUserAgent,
		initialBackoff: defaultInitialBackoff,
		attempts:       defaultAttempts,
		logger:         log.New(io.Discard),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = newResponseCache(defaultCacheEntries, c.now)
	return c, nil
}

type queryBody struct {
	Query   map[string]any `json:"query"`
	Options queryOptions   `json:"options"`
}

type queryOptions struct {
	Page       int            `json:"page,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	Sort       map[string]int `json:"sort,omitempty"`
	Select     []string       `json:"select,omitempty"`
	Pagination *bool          `json:"pagination,omitempty"`
}

// QueryLaunches posts q to /launches/query and returns one page.
func (c *Client) QueryLaunches(ctx context.Context, q LaunchQuery, page, limit int) (Paginated[LaunchListItem], error) {
	if c == nil {
		return Paginated[LaunchListItem]{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		page = 1
	}
	body := queryBody{
		Query: nonNil(q.Query),
		Options: queryOptions{
			Page:   page,
			Limit:  limit,
			Sort:   q.Sort,
			Select: q.Select,
		},
	}
	var payload Paginated[LaunchListItem]
	if err := c.post(ctx, "launches/query", body, &payload); err != nil {
		return Paginated[LaunchListItem]{}, err
	}
	return payload, nil
}

// QueryLaunchesByIDs returns the list projection of every launch in ids,
// newest first. No request is made for an empty slice.
func (c *Client) QueryLaunchesByIDs(ctx context.Context, ids []string) ([]LaunchListItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if len(ids) == 0 {
		return []LaunchListItem{}, nil
	}
	off := false
	body := queryBody{
		Query: map[string]any{"_id": map[string]any{"$in": ids}},
		Options: queryOptions{
			Sort:       map[string]int{"date_utc": -1},
			Select:     ListFields,
			Pagination: &off,
		},
	}
	var payload Paginated[LaunchListItem]
	if err := c.post(ctx, "launches/query", body, &payload); err != nil {
		return nil, err
	}
	return payload.Docs, nil
}

// LaunchHistory returns the date and outcome of every launch.
func (c *Client) LaunchHistory(ctx context.Context) ([]LaunchSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	off := false
	body := queryBody{
		Query: map[string]any{},
		Options: queryOptions{
			Select:     []string{"date_utc", "success"},
			Pagination: &off,
		},
	}
	var payload Paginated[LaunchSummary]
	if err := c.post(ctx, "launches/query", body, &payload); err != nil {
		return nil, err
	}
	return payload.Docs, nil
}

// GetLaunch fetches a single launch. An empty id yields nil.
func (c *Client) GetLaunch(ctx context.Context, id string) (*Launch, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var launch Launch
	ttl := func() time.Duration { return DetailTTL(launch, c.now()) }
	if err := c.getCached(ctx, "launches/"+url.PathEscape(id), &launch, ttl); err != nil {
		return nil, err
	}
	return &launch, nil
}

// GetRocket fetches a single rocket. An empty id yields nil.
func (c *Client) GetRocket(ctx context.Context, id string) (*Rocket, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var rocket Rocket
	if err := c.getCached(ctx, "rockets/"+url.PathEscape(id), &rocket, fixedTTL(staticTTL)); err != nil {
		return nil, err
	}
	return &rocket, nil
}

// GetLaunchpad fetches a single launchpad. An empty id yields nil.
func (c *Client) GetLaunchpad(ctx context.Context, id string) (*Launchpad, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var pad Launchpad
	if err := c.getCached(ctx, "launchpads/"+url.PathEscape(id), &pad, fixedTTL(staticTTL)); err != nil {
		return nil, err
	}
	return &pad, nil
}

func fixedTTL(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

func (c *Client) getCached(ctx context.Context, path string, dest any, ttl func() time.Duration) error {
	if body, ok := c.cache.get(path); ok {
		return decode(body, dest)
	}
	body, err := c.fetch(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decode(body, dest); err != nil {
		return err
	}
	c.cache.put(path, body, ttl())
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, dest any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	body, err := c.fetch(ctx, http.MethodPost, path, raw)
	if err != nil {
		return err
	}
	return decode(body, dest)
}

// fetch performs one logical request, retrying 429 and 5xx answers with
// exponential backoff. Transport failures and other statuses are final.
func (c *Client) fetch(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	op := func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("execute request: %w", err))
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("read response: %w", err))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
			if apiErr.Temporary() {
				return nil, apiErr
			}
			return nil, backoff.Permanent(apiErr)
		}
		return data, nil
	}

	policy := &backoff.ExponentialBackOff{
		InitialInterval:     c.initialBackoff,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         c.initialBackoff << c.attempts,
	}
	notify := func(err error, delay time.Duration) {
		c.logger.Warn("retrying spacex request", "method", method, "path", path, "delay", delay, "err", err)
	}

	data, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.attempts),
		backoff.WithNotify(notify),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		return nil, err
	}
	return data, nil
}

func decode(body []byte, dest any) error {
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
