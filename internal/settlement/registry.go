package settlement

import (
	"context"
	"sync"
	"time"
)

// Registry correlates the two asynchronously-arriving views of an order's
// settlement: the webhook handler that knows the payment outcome, and the
// redirect handler waiting to show it to the customer. Entries are keyed by
// order id within one account's namespace and live purely in memory.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry is the per-order synchronization cell. The resolved channel is
// closed exactly once; waiters that observe the close read the outcome
// afterwards, which the close ordering makes safe.
type entry struct {
	mu       sync.Mutex
	resolved chan struct{}
	settled  bool
	outcome  bool
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) entryFor(orderID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[orderID]
	if !ok {
		e = &entry{resolved: make(chan struct{})}
		r.entries[orderID] = e
	}
	return e
}

// WaitFor blocks until the order is resolved, the timeout elapses, or ctx is
// cancelled. Timeout and cancellation report false without consuming the
// entry, so a webhook landing later still settles it for everyone else.
// Every concurrent waiter for the same order observes the same resolution.
func (r *Registry) WaitFor(ctx context.Context, orderID string, timeout time.Duration) bool {
	e := r.entryFor(orderID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-e.resolved:
		return e.result()
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Resolve settles the order and wakes every current and future waiter.
// The first outcome wins; resolving an already-settled order is a no-op.
func (r *Registry) Resolve(orderID string, outcome bool) {
	e := r.entryFor(orderID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.settled {
		return
	}
	e.settled = true
	e.outcome = outcome
	close(e.resolved)
}

// ScheduleExpiry drops the order's entry after delay, bounding memory for
// settled orders. Waiters already blocked keep their reference to the old
// entry; a WaitFor arriving after expiry starts from a fresh pending one.
func (r *Registry) ScheduleExpiry(orderID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.entries, orderID)
		r.mu.Unlock()
	})
}

func (e *entry) result() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome
}
