package service

import (
	"context"
	"sync"

	"birdwatch/internal/core/policy"
	"birdwatch/internal/modkit/repokit"
	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/platform/logger"
	"birdwatch/internal/services/scan/domain"
)

// processUser runs one user through the pipeline: fetch, classify each post
// concurrently, then commit all violations in a single transaction.
// Per-post failures are logged and skipped, never aborting the batch
func (s *Service) processUser(ctx context.Context, username string, pack *policy.Pack) domain.UserResult {
	res := domain.UserResult{Username: username}

	posts, err := s.fetchAll(ctx, username)
	if err != nil {
		res.Err = err
		return res
	}
	res.Fetched = len(posts)
	logger.C(ctx).Info().Int("fetched", len(posts)).Msg("scan: posts fetched")
	if len(posts) == 0 {
		return res
	}

	rulesText := pack.Enumerate()

	var (
		mu         sync.Mutex
		violations []domain.Violation
		malformed  int
		wg         sync.WaitGroup
	)
	sem := make(chan struct{}, s.Cfg.Concurrency)

	for _, p := range posts {
		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
			wg.Wait()
			return res
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(p domain.Post) {
			defer func() { <-sem; wg.Done() }()

			v, err := s.Classify.Classify(ctx, rulesText, p.Text)
			if err != nil {
				mu.Lock()
				if perr.IsCode(err, perr.ErrorCodeJSON) {
					malformed++
				}
				mu.Unlock()
				logger.C(ctx).Warn().Err(err).Str("post_id", p.ID).Msg("scan: classify failed, skipping post")
				return
			}
			if !v.Flagged {
				return
			}

			tweet := v.Tweet
			if tweet == "" {
				tweet = p.Text
			}
			mu.Lock()
			violations = append(violations, domain.Violation{
				Username:     username,
				Tweet:        tweet,
				Policy:       v.Policy,
				RuleID:       v.RuleID,
				RuleViolated: v.RuleViolated,
				Reason:       v.Reason,
				PostedAt:     p.CreatedAt,
			})
			mu.Unlock()
			logger.C(ctx).Info().Str("post_id", p.ID).Str("rule_id", v.RuleID).Msg("scan: violation found")
		}(p)
	}
	wg.Wait()

	res.Violations = len(violations)
	res.Malformed = malformed
	if len(violations) == 0 {
		return res
	}

	if err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).InsertViolations(ctx, violations)
	}); err != nil {
		res.Err = perr.Wrapf(err, perr.ErrorCodeDB, "scan violations commit failed")
		return res
	}
	logger.C(ctx).Info().Int("violations", len(violations)).Msg("scan: violations committed")

	// best effort columnar mirror
	if s.CH != nil {
		if err := s.CH.Insert(ctx, "violation_events", violations); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("scan: violation mirror insert failed")
		}
	}
	return res
}
