// Package service provides the scan pipeline implementation
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"birdwatch/internal/core/policy"
	"birdwatch/internal/modkit/repokit"
	"birdwatch/internal/platform/logger"
	"birdwatch/internal/platform/store"
	"birdwatch/internal/services/scan/domain"
)

const defaultConcurrency = 8

// Config holds configuration options for the scan service
type Config struct {
	// Concurrency bounds in-flight classifier calls per user; <=0 -> 8
	Concurrency int
}

// Service implements domain.TriggerPort and domain.QueryPort
type Service struct {
	DB       repokit.TxRunner
	Binder   repokit.Binder[domain.StorageRepo]
	Source   domain.PostSource
	Classify domain.Classifier
	Rules    domain.RuleSource
	Cfg      Config

	// Optional columnar mirror for violation events, nil when disabled
	CH store.Clickhouse

	now func() time.Time
}

// New constructs the scan service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	src domain.PostSource,
	cls domain.Classifier,
	rules domain.RuleSource,
	ch store.Clickhouse,
	cfg Config,
) *Service {
	if db == nil {
		panic("scan.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("scan.Service requires a non nil Repo binder")
	}
	if src == nil {
		panic("scan.Service requires a non nil PostSource")
	}
	if cls == nil {
		panic("scan.Service requires a non nil Classifier")
	}
	if rules == nil {
		panic("scan.Service requires a non nil RuleSource")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Service{
		DB: db, Binder: binder,
		Source: src, Classify: cls, Rules: rules,
		CH:  ch,
		Cfg: cfg,
		now: time.Now,
	}
}

// Trigger implements domain.TriggerPort.
// The policy loads synchronously so unknown names fail fast; the scan itself
// runs detached from the caller's request lifetime
func (s *Service) Trigger(ctx context.Context, usernames []string, policyName string) (domain.Receipt, error) {
	pack, err := s.Rules.Load(ctx, policyName)
	if err != nil {
		return domain.Receipt{}, err
	}

	rcpt := domain.Receipt{
		RunID:     uuid.NewString(),
		Usernames: usernames,
		Policy:    policyName,
	}

	bg := context.WithoutCancel(ctx)
	for _, username := range usernames {
		go func(username string) {
			runCtx := logger.WithScanRun(bg, rcpt.RunID, username)
			res := s.processUser(runCtx, username, pack)
			logResult(runCtx, res)
		}(username)
	}
	return rcpt, nil
}

// Run implements domain.TriggerPort, blocking until every user finished.
// One user's failure never blocks or aborts the others
func (s *Service) Run(ctx context.Context, usernames []string, policyName string) ([]domain.UserResult, error) {
	pack, err := s.Rules.Load(ctx, policyName)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	out := make([]domain.UserResult, len(usernames))
	var wg sync.WaitGroup
	for i, username := range usernames {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			runCtx := logger.WithScanRun(ctx, runID, username)
			out[i] = s.processUser(runCtx, username, pack)
			logResult(runCtx, out[i])
		}(i, username)
	}
	wg.Wait()
	return out, nil
}

// ListViolations implements domain.QueryPort
func (s *Service) ListViolations(ctx context.Context, f domain.ViolationFilters) ([]domain.Violation, error) {
	return s.Binder.Bind(s.DB).ListViolations(ctx, f)
}

// ListScannedUsers implements domain.QueryPort
func (s *Service) ListScannedUsers(ctx context.Context) ([]domain.ScannedUser, error) {
	return s.Binder.Bind(s.DB).ListScannedUsers(ctx)
}

// PackFor loads the named policy pack; exposed for CLI preflight
func (s *Service) PackFor(ctx context.Context, name string) (*policy.Pack, error) {
	return s.Rules.Load(ctx, name)
}

func logResult(ctx context.Context, res domain.UserResult) {
	if res.Err != nil {
		logger.C(ctx).Error().Err(res.Err).Msg("scan: user failed")
		return
	}
	logger.C(ctx).Info().
		Int("fetched", res.Fetched).
		Int("violations", res.Violations).
		Int("malformed", res.Malformed).
		Msg("scan: user done")
}
