package store

import "context"

type (
	reqIDKey   struct{}
	scanRunKey struct{}
)

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// WithScanRun attaches a scan run id to the context so query traces can be
// correlated with the pipeline run that issued them
func WithScanRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, scanRunKey{}, runID)
}

// ScanRunID retrieves a scan run id from context if present
func ScanRunID(ctx context.Context) (string, bool) {
	v := ctx.Value(scanRunKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
