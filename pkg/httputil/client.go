package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/hubmap/pkg/cache"
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultTTL is how long downloaded datasets stay cached.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultUserAgent identifies hubmap to tile hosts.
	DefaultUserAgent = "hubmap (+https://github.com/matzehuels/hubmap)"
	// MaxBodySize caps downloads at 64 MiB.
	MaxBodySize = 64 << 20
)

// Client fetches URLs through a cache with retry on transient failures.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keys    cache.Keyer
	ttl     time.Duration
	headers map[string]string
	retry   Policy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTTL sets how long responses are cached. Zero caches forever.
func WithTTL(d time.Duration) Option { return func(c *Client) { c.ttl = d } }

// WithKeyer sets the key scheme used for cache entries.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keys = k } }

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetry overrides the retry policy.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.retry = Policy{Attempts: attempts, Delay: delay, MaxDelay: DefaultPolicy.MaxDelay} }
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(c cache.Cache, opts ...Option) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	cl := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		cache:   c,
		keys:    cache.NewDefaultKeyer(),
		ttl:     DefaultTTL,
		headers: map[string]string{"User-Agent": DefaultUserAgent},
		retry:   DefaultPolicy,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Fetch returns the body at url, serving it from cache unless refresh is set.
// Successful downloads are written back to the cache; a failing cache write
// does not fail the fetch.
func (c *Client) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	key := c.keys.TileKey(url)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return data, nil
		}
	}

	var body []byte
	err := c.retry.Do(ctx, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, body, c.ttl)
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL %q", url)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
	}
	return data, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", url)
	case code == http.StatusTooManyRequests, code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}

