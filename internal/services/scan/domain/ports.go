package domain

import (
	"context"
	"time"

	"birdwatch/internal/core/policy"
)

// TriggerPort is the public port exposed by the module (what other modules call)
type TriggerPort interface {
	// Trigger schedules a scan of the given usernames against the named
	// policy and returns immediately with a receipt.
	// Unknown policies fail synchronously
	Trigger(ctx context.Context, usernames []string, policyName string) (Receipt, error)

	// Run scans the given usernames and blocks until every user finished
	Run(ctx context.Context, usernames []string, policyName string) ([]UserResult, error)
}

// QueryPort serves violation and checkpoint reads
type QueryPort interface {
	ListViolations(ctx context.Context, f ViolationFilters) ([]Violation, error)
	ListScannedUsers(ctx context.Context) ([]ScannedUser, error)
}

// StorageRepo is the scan storage repository interface
type StorageRepo interface {
	// LastScannedAt returns the fetch checkpoint for a user, ok false when unscanned
	LastScannedAt(ctx context.Context, username string) (time.Time, bool, error)

	// SaveScannedAt upserts the fetch checkpoint for a user
	SaveScannedAt(ctx context.Context, username string, at time.Time) error

	// InsertViolations writes a batch of violations
	InsertViolations(ctx context.Context, xs []Violation) error

	ListViolations(ctx context.Context, f ViolationFilters) ([]Violation, error)
	ListScannedUsers(ctx context.Context) ([]ScannedUser, error)
}

// PostSource fetches one page of a user's recent posts.
// since bounds the window to posts after that instant when non-zero
type PostSource interface {
	Page(ctx context.Context, username string, since time.Time, nextToken string) (PostPage, error)
}

// Classifier rules on one post against the enumerated policy rules
type Classifier interface {
	Classify(ctx context.Context, rulesText, postText string) (Verdict, error)
}

// RuleSource loads a named policy pack
type RuleSource interface {
	Load(ctx context.Context, name string) (*policy.Pack, error)
}
