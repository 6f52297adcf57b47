// Package policy loads and resolves compliance policies from JSON.
// A policy document is either {"rules": [...]} or a bare rule array; each
// entry is either a structured {rule_id, category, description} object or a
// plain string. Both shapes resolve into the one canonical Rule at load time
// so downstream code never branches on representation
package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rule is one compliance criterion in canonical form
type Rule struct {
	ID          string `json:"rule_id"`
	Category    string `json:"category"`
	Description string `json:"description"`

	// Raw holds the original text for string-form rules; empty for
	// structured rules
	Raw string `json:"-"`
}

// Line renders the rule as one line of the classifier prompt enumeration
func (r Rule) Line() string {
	if r.Raw != "" {
		return r.Raw
	}
	return fmt.Sprintf("[%s] %s: %s", orNA(r.ID), orNA(r.Category), orNA(r.Description))
}

// Pack is a named, resolved rule set, immutable for the duration of a run
type Pack struct {
	Name  string
	Rules []Rule
}

// rawDoc tolerates both document shapes
type rawDoc struct {
	Name  string            `json:"name"`
	Rules []json.RawMessage `json:"rules"`
}

// Parse resolves raw policy JSON into a Pack
func Parse(name string, data []byte) (*Pack, error) {
	var entries []json.RawMessage

	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err == nil && doc.Rules != nil {
		entries = doc.Rules
	} else {
		// bare array form
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("policy %q: rules must be a list or a %q key with a list", name, "rules")
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("policy %q: no rules", name)
	}

	p := &Pack{Name: name, Rules: make([]Rule, 0, len(entries))}
	for i, e := range entries {
		r, err := resolveRule(e)
		if err != nil {
			return nil, fmt.Errorf("policy %q: rule %d: %w", name, i, err)
		}
		p.Rules = append(p.Rules, r)
	}
	return p, nil
}

// resolveRule maps one raw entry to the canonical Rule shape
func resolveRule(e json.RawMessage) (Rule, error) {
	var s string
	if err := json.Unmarshal(e, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return Rule{}, fmt.Errorf("empty rule string")
		}
		return Rule{Raw: s}, nil
	}

	var obj struct {
		ID          string `json:"rule_id"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(e, &obj); err != nil {
		return Rule{}, fmt.Errorf("not a string or rule object: %w", err)
	}
	return Rule{
		ID:          strings.TrimSpace(obj.ID),
		Category:    strings.TrimSpace(obj.Category),
		Description: strings.TrimSpace(obj.Description),
	}, nil
}

// Enumerate renders the deterministic prompt enumeration, one rule per line
func (p *Pack) Enumerate() string {
	lines := make([]string, 0, len(p.Rules))
	for _, r := range p.Rules {
		lines = append(lines, r.Line())
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of rules in the pack
func (p *Pack) Len() int { return len(p.Rules) }

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
