// Package service contains policy workflows
package service

import (
	"context"
	"path/filepath"
	"strings"

	"birdwatch/internal/core/policy"
	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/platform/logger"
	"birdwatch/internal/services/api/policies/domain"
	"birdwatch/internal/services/api/policies/repo"
)

// Service defines the service contract for policies
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Store *repo.FS
}

// New creates a new policies service
func New(store *repo.FS) *Svc {
	if store == nil {
		panic("policies.Service requires a non nil store")
	}
	return &Svc{Store: store}
}

// Upload validates and persists an uploaded policy document.
// Only .json uploads are accepted and the document must parse into at
// least one rule before anything is written
func (s *Svc) Upload(_ context.Context, filename string, data []byte) (domain.PolicyInfo, error) {
	base := filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(base), ".json") {
		return domain.PolicyInfo{}, perr.Newf(perr.ErrorCodeInvalidArgument, "only .json policy files are accepted")
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))

	pack, err := policy.Parse(name, data)
	if err != nil {
		return domain.PolicyInfo{}, err
	}
	if err := s.Store.Save(name, data); err != nil {
		return domain.PolicyInfo{}, err
	}
	return domain.PolicyInfo{
		Name:      name,
		Rules:     pack.Len(),
		SizeBytes: int64(len(data)),
	}, nil
}

// List returns every stored policy with its rule count.
// Documents that no longer parse are listed with zero rules rather than
// failing the whole listing
func (s *Svc) List(ctx context.Context) ([]domain.PolicyInfo, error) {
	stats, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.PolicyInfo, 0, len(stats))
	for _, st := range stats {
		info := domain.PolicyInfo{
			Name:      st.Name,
			SizeBytes: st.SizeBytes,
			UpdatedAt: st.UpdatedAt,
		}
		if b, rerr := s.Store.Read(st.Name); rerr == nil {
			if pack, parseErr := policy.Parse(st.Name, b); parseErr == nil {
				info.Rules = pack.Len()
			} else {
				logger.C(ctx).Warn().Str("policy", st.Name).Err(parseErr).Msg("policies: stored document no longer parses")
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// Get returns one policy with its resolved rules
func (s *Svc) Get(ctx context.Context, name string) (domain.PolicyDoc, error) {
	pack, err := s.Load(ctx, name)
	if err != nil {
		return domain.PolicyDoc{}, err
	}
	doc := domain.PolicyDoc{Name: pack.Name, Rules: make([]domain.RuleOut, 0, pack.Len())}
	for _, r := range pack.Rules {
		doc.Rules = append(doc.Rules, domain.RuleOut{
			RuleID:      r.ID,
			Category:    r.Category,
			Description: r.Description,
			Text:        r.Line(),
		})
	}
	return doc, nil
}

// Load implements the rule source consumed by the scan pipeline
func (s *Svc) Load(_ context.Context, name string) (*policy.Pack, error) {
	b, err := s.Store.Read(name)
	if err != nil {
		return nil, err
	}
	return policy.Parse(name, b)
}
