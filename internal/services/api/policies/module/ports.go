package module

import (
	"context"

	"birdwatch/internal/core/policy"
	policiesdom "birdwatch/internal/services/api/policies/domain"
	policiessvc "birdwatch/internal/services/api/policies/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptPoliciesPort adapts the policies service to the domain port interface
type adaptPoliciesPort struct{ svc policiessvc.Service }

// Upload implements the domain ServicePort interface
func (a adaptPoliciesPort) Upload(ctx context.Context, filename string, data []byte) (policiesdom.PolicyInfo, error) {
	return a.svc.Upload(ctx, filename, data)
}

// List implements the domain ServicePort interface
func (a adaptPoliciesPort) List(ctx context.Context) ([]policiesdom.PolicyInfo, error) {
	return a.svc.List(ctx)
}

// Get implements the domain ServicePort interface
func (a adaptPoliciesPort) Get(ctx context.Context, name string) (policiesdom.PolicyDoc, error) {
	return a.svc.Get(ctx, name)
}

// Load implements the domain ServicePort interface
func (a adaptPoliciesPort) Load(ctx context.Context, name string) (*policy.Pack, error) {
	return a.svc.Load(ctx, name)
}
