package module

import (
	"context"

	tweetsdom "birdwatch/internal/services/api/tweets/domain"
	tweetssvc "birdwatch/internal/services/api/tweets/service"
)

// adaptTweetsPort adapts the tweets service to the domain port interface
type adaptTweetsPort struct{ svc tweetssvc.Service }

// Process implements the domain ServicePort interface
func (a adaptTweetsPort) Process(ctx context.Context, in tweetsdom.ProcessInput) (tweetsdom.ProcessAck, error) {
	return a.svc.Process(ctx, in)
}

// Violations implements the domain ServicePort interface
func (a adaptTweetsPort) Violations(ctx context.Context, q tweetsdom.ViolationsQuery) ([]tweetsdom.ViolationRow, error) {
	return a.svc.Violations(ctx, q)
}

// ScannedUsers implements the domain ServicePort interface
func (a adaptTweetsPort) ScannedUsers(ctx context.Context) ([]tweetsdom.ScannedUserRow, error) {
	return a.svc.ScannedUsers(ctx)
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
