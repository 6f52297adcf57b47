// Package openai provides a chat-completions classifier client for the scan pipeline
package openai

import (
	"bytes"
	"context"
	json "encoding/json/v2"
	"io"
	"net/http"
	"strings"
	"time"

	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4o-mini"
	defaultTimeout   = 60 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 2 * time.Second
	backoffCap       = 60 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration

	// Retry config for connection and timeout failures only
	// API error statuses are returned to the caller immediately
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal non-streaming chat-completions client
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
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
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
		log:   *logger.Named("openai"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify asks the model to rule on one post against the enumerated rules
func (c *Client) Classify(ctx context.Context, rulesText, postText string) (Verdict, error) {
	content, err := c.complete(ctx, buildMessages(rulesText, postText))
	if err != nil {
		return Verdict{}, err
	}
	return parseVerdict(content)
}

// complete issues the chat request with retries on transport failures
func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: c.opts.Model, Messages: messages})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "openai marshal request failed")
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "openai new request failed")
		}
		req.Header.Set("Content-Type", "application/json")
		if c.opts.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("openai transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("openai http response")

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				return "", perr.Newf(perr.ErrorCodeTooManyRequests, "openai rate limited")
			}
			return "", perr.Newf(perr.ErrorCodeUnknown, "openai unexpected status %d body %s", resp.StatusCode, string(body))
		}

		var out chatResponse
		b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		cerr := resp.Body.Close()
		if err == nil {
			err = cerr
		}
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai read body failed")
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeJSON, "openai decode response failed")
		}
		if len(out.Choices) == 0 {
			return "", perr.Newf(perr.ErrorCodeJSON, "openai response had no choices")
		}
		return out.Choices[0].Message.Content, nil
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
