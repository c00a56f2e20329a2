package middleware

import (
	"testing"

	"github.com/trieroute/trieroute/pkg/common"
)

// TestTraceSetsID tests that the trace middleware stores a fresh ID
func TestTraceSetsID(t *testing.T) {
	c := newTestContext(t, "GET", "/traced")

	if Trace()(c) != common.Proceed {
		t.Fatal("Expected trace middleware to proceed")
	}

	id := GetTraceID(c)
	if id == "" {
		t.Fatal("Expected a trace ID on the context")
	}
	if len(id) != 36 {
		t.Errorf("Expected a UUID-shaped trace ID, got %q", id)
	}
}

// TestTraceIDsUnique tests that each dispatch gets its own ID
func TestTraceIDsUnique(t *testing.T) {
	mw := Trace()

	c1 := newTestContext(t, "GET", "/a")
	c2 := newTestContext(t, "GET", "/b")
	mw(c1)
	mw(c2)

	if GetTraceID(c1) == GetTraceID(c2) {
		t.Error("Expected distinct trace IDs per dispatch")
	}
}

// TestGetTraceIDMissing tests the accessor without the middleware
func TestGetTraceIDMissing(t *testing.T) {
	c := newTestContext(t, "GET", "/")
	if GetTraceID(c) != "" {
		t.Error("Expected empty trace ID when the middleware has not run")
	}
}
