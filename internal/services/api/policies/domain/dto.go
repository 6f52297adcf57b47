// Package domain holds DTOs for policies http and service contracts
package domain

import (
	"context"
	"time"

	"birdwatch/internal/core/policy"
)

// PolicyInfo summarizes a stored policy
type PolicyInfo struct {
	Name      string    `json:"name"`
	Rules     int       `json:"rules"`
	SizeBytes int64     `json:"size_bytes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleOut is one resolved rule for transport
type RuleOut struct {
	RuleID      string `json:"rule_id,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text"`
}

// PolicyDoc is a full policy with its resolved rules
type PolicyDoc struct {
	Name  string    `json:"name"`
	Rules []RuleOut `json:"rules"`
}

// ServicePort defines the service contract for policies
type ServicePort interface {
	Upload(ctx context.Context, filename string, data []byte) (PolicyInfo, error)
	List(ctx context.Context) ([]PolicyInfo, error)
	Get(ctx context.Context, name string) (PolicyDoc, error)

	// Load resolves a stored policy into a pack for the scan pipeline
	Load(ctx context.Context, name string) (*policy.Pack, error)
}
