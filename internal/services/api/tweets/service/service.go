// Package service contains tweets workflows over the scan ports
package service

import (
	"context"
	"strings"

	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/services/api/tweets/domain"
	scandom "birdwatch/internal/services/scan/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Service defines the service contract for tweets
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Trigger scandom.TriggerPort
	Query   scandom.QueryPort
}

// New creates a new tweets service
func New(trigger scandom.TriggerPort, query scandom.QueryPort) *Svc {
	if trigger == nil {
		panic("tweets.Service requires a non nil Trigger port")
	}
	if query == nil {
		panic("tweets.Service requires a non nil Query port")
	}
	return &Svc{Trigger: trigger, Query: query}
}

// Process schedules a scan and acks immediately
func (s *Svc) Process(ctx context.Context, in domain.ProcessInput) (domain.ProcessAck, error) {
	usernames := make([]string, 0, len(in.Usernames))
	seen := map[string]struct{}{}
	for _, u := range in.Usernames {
		u = strings.TrimPrefix(strings.TrimSpace(u), "@")
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		usernames = append(usernames, u)
	}
	if len(usernames) == 0 {
		return domain.ProcessAck{}, perr.Newf(perr.ErrorCodeInvalidArgument, "at least one username is required")
	}

	rcpt, err := s.Trigger.Trigger(ctx, usernames, in.Policy)
	if err != nil {
		return domain.ProcessAck{}, err
	}
	return domain.ProcessAck{
		Message:   "processing started",
		RunID:     rcpt.RunID,
		Usernames: rcpt.Usernames,
		Policy:    rcpt.Policy,
		Status:    "started",
	}, nil
}

// Violations lists stored violations matching the query
func (s *Svc) Violations(ctx context.Context, q domain.ViolationsQuery) ([]domain.ViolationRow, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "limit must be between 1 and %d", maxLimit)
	}
	if q.Offset < 0 {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "offset must not be negative")
	}
	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "end_date must not precede start_date")
	}

	rows, err := s.Query.ListViolations(ctx, scandom.ViolationFilters{
		Username:  q.Username,
		Policy:    q.Policy,
		RuleID:    q.RuleID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ViolationRow, 0, len(rows))
	for _, v := range rows {
		out = append(out, domain.ViolationRow{
			ID:           v.ID,
			Username:     v.Username,
			Tweet:        v.Tweet,
			Policy:       v.Policy,
			RuleID:       v.RuleID,
			RuleViolated: v.RuleViolated,
			Reason:       v.Reason,
			PostedAt:     v.PostedAt,
			CreatedAt:    v.CreatedAt,
		})
	}
	return out, nil
}

// ScannedUsers lists every fetch checkpoint
func (s *Svc) ScannedUsers(ctx context.Context) ([]domain.ScannedUserRow, error) {
	users, err := s.Query.ListScannedUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ScannedUserRow, 0, len(users))
	for _, u := range users {
		out = append(out, domain.ScannedUserRow{
			Username:      u.Username,
			LastScannedAt: u.LastScannedAt,
		})
	}
	return out, nil
}
