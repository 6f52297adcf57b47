// Package repo provides the scan repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"birdwatch/internal/modkit/repokit"
	"birdwatch/internal/services/scan/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[domain.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StorageRepo { return &pg{q: q} }

// LastScannedAt implements domain.StorageRepo
func (s *pg) LastScannedAt(ctx context.Context, username string) (time.Time, bool, error) {
	rows, err := s.q.Query(ctx,
		`SELECT last_scanned_at FROM scanned_users WHERE username = $1`, username)
	if err != nil {
		return time.Time{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return time.Time{}, false, rows.Err()
	}
	// last_scanned_at is nullable; a NULL row means no checkpoint yet
	var at *time.Time
	if err := rows.Scan(&at); err != nil {
		return time.Time{}, false, err
	}
	if at == nil {
		return time.Time{}, false, rows.Err()
	}
	return *at, true, rows.Err()
}

// SaveScannedAt implements domain.StorageRepo
func (s *pg) SaveScannedAt(ctx context.Context, username string, at time.Time) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO scanned_users (username, last_scanned_at)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET last_scanned_at = EXCLUDED.last_scanned_at`,
		username, at.UTC())
	return err
}

// InsertViolations implements domain.StorageRepo
func (s *pg) InsertViolations(ctx context.Context, xs []domain.Violation) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO violations
		(username, tweet, policy, rule_id, rule_violated, reason, posted_at) VALUES `)

	args := make([]any, 0, len(xs)*7)
	for i, v := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*7 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6)

		args = append(args,
			v.Username, v.Tweet, v.Policy, v.RuleID, v.RuleViolated, v.Reason, v.PostedAt,
		)
	}
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// ListViolations implements domain.StorageRepo
func (s *pg) ListViolations(ctx context.Context, f domain.ViolationFilters) ([]domain.Violation, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT id, username, tweet, policy, rule_id, rule_violated, reason, posted_at, created_at
		FROM violations
		WHERE 1=1
	`)
	if f.Username != "" {
		sb.WriteString("  AND username = " + arg(f.Username) + "\n")
	}
	if f.Policy != "" {
		sb.WriteString("  AND policy = " + arg(f.Policy) + "\n")
	}
	if f.RuleID != "" {
		sb.WriteString("  AND rule_id = " + arg(f.RuleID) + "\n")
	}
	if !f.StartDate.IsZero() {
		sb.WriteString("  AND posted_at >= " + arg(f.StartDate) + "\n")
	}
	if !f.EndDate.IsZero() {
		sb.WriteString("  AND posted_at < " + arg(f.EndDate) + "\n")
	}
	sb.WriteString("ORDER BY posted_at DESC, id DESC\nLIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Violation, 0, f.Limit)
	for rows.Next() {
		var v domain.Violation
		if err := rows.Scan(
			&v.ID, &v.Username, &v.Tweet, &v.Policy, &v.RuleID,
			&v.RuleViolated, &v.Reason, &v.PostedAt, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListScannedUsers implements domain.StorageRepo
func (s *pg) ListScannedUsers(ctx context.Context) ([]domain.ScannedUser, error) {
	rows, err := s.q.Query(ctx,
		`SELECT username, last_scanned_at FROM scanned_users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScannedUser
	for rows.Next() {
		var (
			u  domain.ScannedUser
			at *time.Time
		)
		if err := rows.Scan(&u.Username, &at); err != nil {
			return nil, err
		}
		if at != nil {
			u.LastScannedAt = *at
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
