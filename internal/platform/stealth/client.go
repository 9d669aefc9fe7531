// Package stealth issues outbound HTTP fetches with a browser-like
// fingerprint: Chrome TLS handshake, rotating header pools, per-origin
// request spacing, and bounded retry with exponential backoff.
//
// Failure classification: transport faults and ordinary non-2xx statuses are
// retryable; 401/403/429/503 are an active blocking signal and terminate the
// fetch immediately, since retrying against a block wastes time and raises
// suspicion.
package stealth

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"hermesx/internal/platform/cache"
	"hermesx/internal/platform/errors"
	"hermesx/internal/platform/logx"
	"hermesx/internal/platform/rate"
)

// Config holds the transport knobs. Zero values fall back to defaults.
type Config struct {
	// Timeout bounds one HTTP request end to end. Default: 10s.
	Timeout time.Duration

	// MaxRetries is the attempt ceiling for retryable failures. Default: 3.
	MaxRetries int

	// BackoffBase is the first retry delay; it doubles per attempt.
	// Default: 2s.
	BackoffBase time.Duration

	// BackoffCap is the ceiling on a single backoff sleep. Default: 8s.
	BackoffCap time.Duration

	// OriginDelay is the minimum spacing between two requests to the same
	// origin. Default: 2s.
	OriginDelay time.Duration

	// RetryOnBlock retries 401/403/429/503 like any other status instead of
	// treating them as terminal. Default off; the knob exists so operators
	// can trade politeness for recall.
	RetryOnBlock bool

	// CacheSize / CacheTTL configure the in-memory page cache.
	// CacheSize < 0 disables caching. Defaults: 256 entries, 5m.
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 2 * time.Second,
		BackoffCap:  8 * time.Second,
		OriginDelay: 2 * time.Second,
		CacheSize:   256,
		CacheTTL:    5 * time.Minute,
	}
}

// Client is the stealth HTTP transport shared by every tier. Safe for
// concurrent use; the origin limiter and the page cache are the only shared
// mutable state and both are internally synchronized.
type Client struct {
	httpClient *http.Client
	limiter    *rate.OriginLimiter
	pages      *cache.PageCache
	logger     logx.Logger
	cfg        Config
}

// New creates a stealth client.
func New(cfg Config, logger logx.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2 * time.Second
	}
	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = 8 * time.Second
	}

	var pages *cache.PageCache
	if cfg.CacheSize >= 0 {
		pages = cache.New(cfg.CacheSize, cfg.CacheTTL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.Timeout),
		},
		limiter: rate.NewOriginLimiter(cfg.OriginDelay),
		pages:   pages,
		logger:  logger.With("component", "stealth"),
		cfg:     cfg,
	}
}

// Fetch GETs rawURL and returns the body as a string. Redirects are followed
// automatically. Returns ErrBlocked on an active blocking status and
// ErrNoContent once retries are exhausted.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	if c.pages != nil {
		if body, ok := c.pages.Get(rawURL); ok {
			c.logger.Debug("cache hit", "url", rawURL)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx, originOf(rawURL)); err != nil {
		return "", errors.Wrap(err, "rate limit wait interrupted")
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		body, retryable, err := c.fetchOnce(ctx, rawURL, attempt)
		if err == nil {
			if c.pages != nil {
				c.pages.Set(rawURL, body)
			}
			return body, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err

		if attempt < c.cfg.MaxRetries {
			if err := c.backoff(ctx, attempt); err != nil {
				return "", errors.Wrap(err, "backoff interrupted")
			}
		}
	}

	c.logger.Debug("retries exhausted", "url", rawURL, "error", lastErr.Error())
	return "", errors.Wrapf(errors.ErrNoContent, "after %d attempts: %v", c.cfg.MaxRetries, lastErr)
}

// fetchOnce performs a single attempt. The second return value reports
// whether the failure is retryable.
func (c *Client) fetchOnce(ctx context.Context, rawURL string, attempt int) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for k, v := range browserHeaders(rawURL) {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"url", rawURL,
			"attempt", attempt,
			"max", c.cfg.MaxRetries,
			"error", err.Error(),
		)
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := decodeBody(resp)
		if err != nil {
			return "", true, errors.Wrap(err, "reading body")
		}
		c.logger.Debug("fetched",
			"url", rawURL,
			"status", resp.StatusCode,
			"bytes", len(body),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return body, false, nil
	}

	if isBlockStatus(resp.StatusCode) && !c.cfg.RetryOnBlock {
		c.logger.Debug("blocked",
			"url", rawURL,
			"status", resp.StatusCode,
			"attempt", attempt,
		)
		return "", false, errors.Wrapf(errors.ErrBlocked, "HTTP %d", resp.StatusCode)
	}

	c.logger.Debug("unexpected status",
		"url", rawURL,
		"status", resp.StatusCode,
		"attempt", attempt,
		"max", c.cfg.MaxRetries,
	)
	return "", true, errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
}

// backoff sleeps for an exponentially growing, capped interval.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	d := c.cfg.BackoffBase << (attempt - 1)
	if d > c.cfg.BackoffCap {
		d = c.cfg.BackoffCap
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isBlockStatus reports whether code signals active blocking or rate
// limiting by the remote host.
func isBlockStatus(code int) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden,
		http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// decodeBody reads the response body, reversing whatever Content-Encoding
// the server applied. Needed because setting Accept-Encoding explicitly
// turns off net/http's transparent gzip handling.
func decodeBody(resp *http.Response) (string, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// originOf derives the rate-limiting unit (scheme+host) from a URL.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
