package service

import (
	"context"

	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/platform/logger"
	"birdwatch/internal/services/scan/domain"
)

// fetchAll drains every page of a user's posts since their checkpoint.
// A rate limit mid-pagination truncates to the pages already fetched; a rate
// limit on the first page surfaces as an error. The checkpoint advances after
// every successful fetch, zero posts included, so an empty window is never
// re-fetched
func (s *Service) fetchAll(ctx context.Context, username string) ([]domain.Post, error) {
	since, ok, err := s.Binder.Bind(s.DB).LastScannedAt(ctx, username)
	if err != nil {
		return nil, err
	}
	if ok {
		logger.C(ctx).Debug().Time("since", since).Msg("scan: resuming from checkpoint")
	}

	var posts []domain.Post
	token := ""
	for {
		page, err := s.Source.Page(ctx, username, since, token)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeTooManyRequests) && len(posts) > 0 {
				logger.C(ctx).Warn().
					Int("fetched", len(posts)).
					Msg("scan: rate limited mid-pagination, truncating")
				break
			}
			return nil, err
		}
		posts = append(posts, page.Posts...)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	if err := s.Binder.Bind(s.DB).SaveScannedAt(ctx, username, s.now().UTC()); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "scan checkpoint save failed")
	}
	return posts, nil
}
