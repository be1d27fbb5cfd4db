package overpass

import (
	"context"
	"errors"
	"fmt"
	"geonotes/metrics"
	"github.com/cenkalti/backoff/v4"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

type Client struct {
	endpoint   string
	http       *http.Client
	maxElapsed time.Duration
}

func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{endpoint: endpoint, http: &http.Client{}, maxElapsed: 2 * time.Minute}
}

// WithMaxElapsed bounds the total time spent retrying a query.
func (c *Client) WithMaxElapsed(d time.Duration) *Client {
	c.maxElapsed = d
	return c
}

type QueryError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Temporary reports whether retrying may succeed: the server is overloaded
// or rate limiting us.
func (e *QueryError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Query runs an Overpass QL query that requests [out:json]. Rate limiting and
// server errors are retried with exponential backoff.
func (c *Client) Query(ctx context.Context, query string) (*Response, error) {
	start := time.Now()
	defer func() {
		metrics.OverpassQueryDuration.Observe(time.Since(start).Seconds())
	}()

	var out *Response
	err := backoff.Retry(func() error {
		resp, err := c.queryOnce(ctx, query)
		if err != nil {
			var qe *QueryError
			if errors.As(err, &qe) && !qe.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = resp
		return nil
	}, backoff.WithContext(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(c.maxElapsed)), ctx))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) queryOnce(ctx context.Context, query string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "geonotes (+https://github.com/geonotes)")
	req.Header.Set("Content-Type", "text/plain")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			body = nil
		}
		return nil, &QueryError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	return ParseJSON(resp.Body)
}
