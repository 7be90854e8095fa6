package httpmock

import (
	"sync"
	"testing"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// CallStack is the ordered record of requests a pattern matched.
// It only grows, and only the registry appends to it. It is safe to read
// while the registry records calls from other goroutines.
type CallStack struct {
	mu    sync.RWMutex
	calls []*mock.Request
}

func (c *CallStack) push(r *mock.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, r)
}

// Len returns the number of recorded calls.
func (c *CallStack) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.calls)
}

// IsEmpty reports whether nothing was recorded.
func (c *CallStack) IsEmpty() bool {
	return c.Len() == 0
}

// All returns the recorded requests in match order.
func (c *CallStack) All() []*mock.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*mock.Request, len(c.calls))
	copy(out, c.calls)
	return out
}

// At returns the i-th recorded request, or nil if out of range.
func (c *CallStack) At(i int) *mock.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.calls) {
		return nil
	}
	return c.calls[i]
}

// First returns the first recorded request, or nil.
func (c *CallStack) First() *mock.Request {
	return c.At(0)
}

// Last returns the most recent request, or nil.
func (c *CallStack) Last() *mock.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.calls) == 0 {
		return nil
	}
	return c.calls[len(c.calls)-1]
}

// AssertCalled asserts at least one request was recorded.
func (c *CallStack) AssertCalled(t testing.TB) {
	t.Helper()
	if c.IsEmpty() {
		t.Error("expected pattern to be called, but it was not")
	}
}

// AssertCalledTimes asserts exactly n requests were recorded.
func (c *CallStack) AssertCalledTimes(t testing.TB, n int) {
	t.Helper()
	if got := c.Len(); got != n {
		t.Errorf("expected pattern to be called %d times, but it was called %d times", n, got)
	}
}

// AssertNotCalled asserts nothing was recorded.
func (c *CallStack) AssertNotCalled(t testing.TB) {
	t.Helper()
	if got := c.Len(); got != 0 {
		t.Errorf("expected pattern not to be called, but it was called %d times", got)
	}
}
