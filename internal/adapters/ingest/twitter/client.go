// Package twitter provides a resilient recent-search client for the scan pipeline
package twitter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.twitter.com"
	defaultTimeout   = 15 * time.Second
	defaultPageSize  = 100
	defaultMaxRetry  = 3
	defaultRetryBase = 2 * time.Second
	backoffCap       = 30 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration

	// Posts per page, capped at 100 by the API
	PageSize int

	// Retry config for transport and transient server errors
	// Rate limited responses are never retried here; the caller decides
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal recent-search client with bearer auth and retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.PageSize <= 0 || o.PageSize > 100 {
		o.PageSize = defaultPageSize
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("twitter"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// searchQuery builds the recent search query string for one page
// Retweets are always excluded
func (c *Client) searchQuery(username string, since time.Time, nextToken string) string {
	v := url.Values{}
	v.Set("query", "from:"+username+" -is:retweet")
	v.Set("max_results", strconv.Itoa(c.opts.PageSize))
	v.Set("tweet.fields", "id,text,author_id,created_at")
	if !since.IsZero() {
		v.Set("start_time", since.UTC().Format(time.RFC3339))
	}
	if nextToken != "" {
		v.Set("next_token", nextToken)
	}
	return "/2/tweets/search/recent?" + v.Encode()
}

// do issues a GET with auth headers, retries, and rate limit detection
func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	u := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "twitter new request failed")
		}
		req.Header.Set("Accept", "application/json")
		if c.opts.BearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.BearerToken)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "twitter do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("twitter transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("twitter http response")

		switch resp.StatusCode {
		case http.StatusOK:
			return resp, nil
		case http.StatusTooManyRequests:
			// never blind-retried; the fetch loop truncates or surfaces it
			_ = drainAndClose(resp.Body)
			return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "twitter rate limited")
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "twitter transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("twitter transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeUnknown, "twitter unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	ms := int64(c.opts.RetryBase / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(backoffCap / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// IsRateLimited reports whether err carries the rate limited error code
func IsRateLimited(err error) bool {
	return perr.IsCode(err, perr.ErrorCodeTooManyRequests)
}
