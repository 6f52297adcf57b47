// Package domain holds DTOs for tweets http and service contracts
package domain

import (
	"context"
	"time"
)

// ProcessInput starts a compliance scan for a set of usernames
type ProcessInput struct {
	Usernames []string `json:"usernames" validate:"required,min=1,max=50,dive,required,max=64" example:"acme_corp"`
	Policy    string   `json:"policy_name" validate:"required,min=1,max=128" example:"social"`
}

// ProcessAck acknowledges a scheduled scan
type ProcessAck struct {
	Message   string   `json:"message"`
	RunID     string   `json:"run_id"`
	Usernames []string `json:"usernames"`
	Policy    string   `json:"policy"`
	Status    string   `json:"status"`
}

// ViolationsQuery narrows the violations listing
// Limit is clamped to 1..1000 with a default of 100
type ViolationsQuery struct {
	Username  string
	Policy    string
	RuleID    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// ViolationRow is one stored violation for transport
type ViolationRow struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Tweet        string    `json:"tweet"`
	Policy       string    `json:"policy"`
	RuleID       string    `json:"rule_id"`
	RuleViolated string    `json:"rule_violated"`
	Reason       string    `json:"reason"`
	PostedAt     time.Time `json:"posted_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScannedUserRow is one fetch checkpoint for transport
type ScannedUserRow struct {
	Username      string    `json:"username"`
	LastScannedAt time.Time `json:"last_scanned_at"`
}

// ServicePort defines the service contract for tweets
type ServicePort interface {
	Process(ctx context.Context, in ProcessInput) (ProcessAck, error)
	Violations(ctx context.Context, q ViolationsQuery) ([]ViolationRow, error)
	ScannedUsers(ctx context.Context) ([]ScannedUserRow, error)
}
