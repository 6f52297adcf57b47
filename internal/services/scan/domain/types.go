// Package domain defines the scan pipeline types and ports
package domain

import "time"

// Post is one fetched post awaiting classification
type Post struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// PostPage is one page of posts plus the pagination cursor
// An empty NextToken marks the last page
type PostPage struct {
	Posts     []Post
	NextToken string
}

// Verdict is the classifier's ruling for one post
type Verdict struct {
	Flagged      bool
	Tweet        string
	Policy       string
	RuleID       string
	RuleViolated string
	Reason       string
}

// Violation is one flagged post ready for persistence
// ch tags map to the optional analytics mirror table
type Violation struct {
	ID           int64     `ch:"-"`
	Username     string    `ch:"username"`
	Tweet        string    `ch:"tweet"`
	Policy       string    `ch:"policy"`
	RuleID       string    `ch:"rule_id"`
	RuleViolated string    `ch:"rule_violated"`
	Reason       string    `ch:"reason"`
	PostedAt     time.Time `ch:"posted_at"`
	CreatedAt    time.Time `ch:"-"`
}

// ScannedUser is a per-user fetch checkpoint
type ScannedUser struct {
	Username      string
	LastScannedAt time.Time
}

// Receipt acknowledges a scheduled scan run
type Receipt struct {
	RunID     string
	Usernames []string
	Policy    string
}

// UserResult summarizes one user's pass through the pipeline
type UserResult struct {
	Username   string
	Fetched    int
	Violations int
	Malformed  int
	Err        error
}

// ViolationFilters narrows violation listings
// Zero values mean no constraint
type ViolationFilters struct {
	Username  string
	Policy    string
	RuleID    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}
