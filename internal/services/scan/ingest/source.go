// Package ingest holds adapter shims for scan ingest ports.
package ingest

import (
	"context"
	json "encoding/json/v2"
	"os"
	"time"

	"birdwatch/internal/core/sanitize"
	"birdwatch/internal/modkit"
	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/services/scan/domain"

	"birdwatch/internal/adapters/ingest/twitter"
)

// source implements domain.PostSource against the recent search client
type source struct {
	c *twitter.Client
}

// NewSource constructs a domain.PostSource from config under TWITTER_*.
// This keeps config-reading outside service and avoids passing platform deps into repos
func NewSource(deps modkit.Deps) domain.PostSource {
	tw := deps.Cfg.Prefix("TWITTER_")
	return &source{
		c: twitter.NewClient(twitter.Options{
			BaseURL:     tw.MayString("BASE_URL", ""),
			BearerToken: tw.MustString("BEARER_TOKEN"),
			Timeout:     tw.MayDuration("TIMEOUT", 0),
			PageSize:    tw.MayInt("PAGE_SIZE", 0),
			MaxRetries:  tw.MayInt("RETRIES", 0),
			RetryBase:   tw.MayDuration("RETRY_BASE", 0),
		}),
	}
}

func (s *source) Page(ctx context.Context, username string, since time.Time, nextToken string) (domain.PostPage, error) {
	pg, err := s.c.SearchPage(ctx, username, since, nextToken)
	if err != nil {
		return domain.PostPage{}, err
	}
	out := domain.PostPage{
		Posts:     make([]domain.Post, 0, len(pg.Posts)),
		NextToken: pg.NextToken,
	}
	for _, p := range pg.Posts {
		out.Posts = append(out.Posts, domain.Post{
			ID:        p.ID,
			Text:      sanitize.Clean(p.Text),
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

// fileSource implements domain.PostSource from a pre-generated sample file.
// Used for local runs without API credentials
type fileSource struct {
	path string
}

// NewFileSource constructs a domain.PostSource reading posts from path
func NewFileSource(path string) domain.PostSource {
	return &fileSource{path: path}
}

type sampleDoc struct {
	Tweets []struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"tweets"`
}

// Page returns the whole sample file as a single page regardless of username
func (s *fileSource) Page(_ context.Context, _ string, _ time.Time, _ string) (domain.PostPage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return domain.PostPage{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "sample posts file read failed")
	}
	var doc sampleDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.PostPage{}, perr.Wrapf(err, perr.ErrorCodeJSON, "sample posts file decode failed")
	}
	out := domain.PostPage{Posts: make([]domain.Post, 0, len(doc.Tweets))}
	for _, t := range doc.Tweets {
		out.Posts = append(out.Posts, domain.Post{
			ID:        t.ID,
			Text:      sanitize.Clean(t.Text),
			CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}
