package common

import (
	"net/http/httptest"
	"testing"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	req := httptest.NewRequest("GET", "/test", nil)
	return NewContext(httptest.NewRecorder(), req, "/test", nil)
}

// TestRunOrder tests that middleware run strictly in registration order
func TestRunOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(c *Context) Decision {
			order = append(order, name)
			return Proceed
		}
	}

	chain := NewMiddlewareChain(mk("A"), mk("B"), mk("C"))
	if !chain.Run(newTestContext(t)) {
		t.Fatal("Expected chain to proceed")
	}

	want := []string{"A", "B", "C"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d middleware calls, got %d", len(want), len(order))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("Expected middleware %q at position %d, got %q", name, i, order[i])
		}
	}
}

// TestRunHalt tests that a Halt return stops the remaining chain
func TestRunHalt(t *testing.T) {
	ran := make(map[string]bool)

	chain := NewMiddlewareChain(
		func(c *Context) Decision {
			ran["A"] = true
			return Proceed
		},
		func(c *Context) Decision {
			ran["B"] = true
			return Halt
		},
		func(c *Context) Decision {
			ran["C"] = true
			return Proceed
		},
	)

	if chain.Run(newTestContext(t)) {
		t.Error("Expected chain to report not proceeded")
	}
	if !ran["A"] || !ran["B"] {
		t.Error("Expected A and B to run before the halt")
	}
	if ran["C"] {
		t.Error("Expected C to be skipped after B halted")
	}
}

// TestRunStopFlag tests that the stop flag halts the chain even when the
// middleware that set it returned Proceed
func TestRunStopFlag(t *testing.T) {
	ran := false

	chain := NewMiddlewareChain(
		func(c *Context) Decision {
			c.Stop()
			return Proceed
		},
		func(c *Context) Decision {
			ran = true
			return Proceed
		},
	)

	if chain.Run(newTestContext(t)) {
		t.Error("Expected chain to halt via the stop flag")
	}
	if ran {
		t.Error("Expected the second middleware to be skipped")
	}
}

// TestRunEmptyChain tests that an empty chain proceeds
func TestRunEmptyChain(t *testing.T) {
	if !NewMiddlewareChain().Run(newTestContext(t)) {
		t.Error("Expected an empty chain to proceed")
	}
}

// TestAppendPrepend tests chain construction ordering
func TestAppendPrepend(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(c *Context) Decision {
			order = append(order, name)
			return Proceed
		}
	}

	chain := NewMiddlewareChain(mk("B")).Append(mk("C")).Prepend(mk("A"))
	if got := len(chain); got != 3 {
		t.Fatalf("Expected chain length 3, got %d", got)
	}

	chain.Run(newTestContext(t))
	want := []string{"A", "B", "C"}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("Expected %q at position %d, got %q", name, i, order[i])
		}
	}
}
