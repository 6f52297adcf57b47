package store

import (
	"context"
	"testing"
)

// TestScanRunID_SetAndGet sets a scan run id and retrieves it
func TestScanRunID_SetAndGet(t *testing.T) {
	t.Parallel()

	base := context.Background()
	ctx := WithScanRun(base, "run-42")

	id, ok := ScanRunID(ctx)
	if !ok {
		t.Fatalf("ScanRunID not found")
	}
	if id != "run-42" {
		t.Fatalf("ScanRunID mismatch got=%q want=%q", id, "run-42")
	}
}

// TestScanRunID_EmptyString reports false when empty string is stored
func TestScanRunID_EmptyString(t *testing.T) {
	t.Parallel()

	ctx := WithScanRun(context.Background(), "")

	id, ok := ScanRunID(ctx)
	if ok {
		t.Fatalf("ScanRunID ok should be false for empty value")
	}
	if id != "" {
		t.Fatalf("ScanRunID should be empty got=%q", id)
	}
}

// TestScanRunID_NotPresent returns false on base context
func TestScanRunID_NotPresent(t *testing.T) {
	t.Parallel()

	id, ok := ScanRunID(context.Background())
	if ok || id != "" {
		t.Fatalf("ScanRunID should be absent on base context")
	}
}

// TestScanRunID_NoLeak ensures adding value returns a new ctx and base has no value
func TestScanRunID_NoLeak(t *testing.T) {
	t.Parallel()

	base := context.Background()
	_ = WithScanRun(base, "run-42")

	id, ok := ScanRunID(base)
	if ok || id != "" {
		t.Fatalf("base context should not have scan run value")
	}
}

// TestRequestID_SetAndGet sets a request id and retrieves it
func TestRequestID_SetAndGet(t *testing.T) {
	t.Parallel()

	base := context.Background()
	ctx := WithRequestID(base, "req-123")

	id, ok := RequestID(ctx)
	if !ok {
		t.Fatalf("RequestID not found")
	}
	if id != "req-123" {
		t.Fatalf("RequestID mismatch got=%q want=%q", id, "req-123")
	}
}

// TestRequestID_EmptyString reports false when empty string is stored
func TestRequestID_EmptyString(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "")

	id, ok := RequestID(ctx)
	if ok {
		t.Fatalf("RequestID ok should be false for empty value")
	}
	if id != "" {
		t.Fatalf("RequestID should be empty got=%q", id)
	}
}

// TestRequestID_NotPresent returns false on base context
func TestRequestID_NotPresent(t *testing.T) {
	t.Parallel()

	id, ok := RequestID(context.Background())
	if ok || id != "" {
		t.Fatalf("RequestID should be absent on base context")
	}
}

// TestKeys_Isolation ensures scan run and request keys do not collide
func TestKeys_Isolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = WithScanRun(ctx, "run-42")
	ctx = WithRequestID(ctx, "req-123")

	run, sok := ScanRunID(ctx)
	req, rok := RequestID(ctx)

	if !sok || run != "run-42" {
		t.Fatalf("ScanRunID mismatch sok=%v run=%q", sok, run)
	}
	if !rok || req != "req-123" {
		t.Fatalf("RequestID mismatch rok=%v req=%q", rok, req)
	}
}
