// Package settlement schedules the deferred pending-to-confirmed order
// transition that stands in for asynchronous payment settlement. Timers are
// tracked so shutdown can cancel what has not fired yet; cancelled
// transitions are dropped, not replayed.
package settlement

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler owns one timer per order awaiting confirmation.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	confirm func(orderID string)
	closed  bool
}

// NewScheduler returns a Scheduler that invokes confirm when an order's
// delay elapses. confirm runs on the timer goroutine and must be safe for
// concurrent use.
func NewScheduler(confirm func(orderID string)) *Scheduler {
	return &Scheduler{
		timers:  make(map[string]*time.Timer),
		confirm: confirm,
	}
}

// Schedule arms the confirmation timer for the order. Fire-and-forget: the
// caller is never blocked and never observes the outcome.
func (s *Scheduler) Schedule(orderID string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		slog.Warn("scheduler stopped, dropping confirmation", "order_id", orderID)
		return
	}

	s.timers[orderID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, orderID)
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		s.confirm(orderID)
	})
}

// Stop cancels every pending confirmation. Transitions that have not fired
// are dropped; each one is logged.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for orderID, t := range s.timers {
		t.Stop()
		delete(s.timers, orderID)
		slog.Warn("dropping pending confirmation on shutdown", "order_id", orderID)
	}
}

// Pending reports how many confirmations are still armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
