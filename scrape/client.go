// Package scrape fetches web pages politely and selects elements from them.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"geonotes/metrics"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultUserAgent = "geonotes scraper (+https://github.com/geonotes)"

type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	cache      Cache
	userAgent  string
	maxElapsed time.Duration
}

type Option func(*Client)

// WithRate allows at most one request per interval, with no bursting.
func WithRate(interval time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithMaxElapsed(d time.Duration) Option {
	return func(c *Client) { c.maxElapsed = d }
}

// New returns a client that makes at most one request per second.
func New(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: time.Minute},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		userAgent:  DefaultUserAgent,
		maxElapsed: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: %s", e.URL, e.Status)
}

func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Get returns the body of url, from the cache if present.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			slog.Warn("scrape cache get failed", "url", url, "err", err)
		} else if ok {
			metrics.ScrapeRequests.WithLabelValues("cached").Inc()
			return body, nil
		}
	}

	var body []byte
	err := backoff.Retry(func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		b, err := c.getOnce(ctx, url)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			slog.Debug("retrying fetch", "url", url, "err", err)
			return err
		}
		body = b
		return nil
	}, backoff.WithContext(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(c.maxElapsed)), ctx))
	if err != nil {
		metrics.ScrapeRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ScrapeRequests.WithLabelValues("fetched").Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, body); err != nil {
			slog.Warn("scrape cache set failed", "url", url, "err", err)
		}
	}
	return body, nil
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}
