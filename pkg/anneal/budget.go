package anneal

import (
	"sync/atomic"
	"time"
)

// CancelToken is the single atomic flag the evolver and planner poll at
// trial boundaries. Setting it unwinds the current generation, returning
// the best-so-far layout.
type CancelToken struct {
	flag atomic.Bool
}

// Cancel sets the flag.
func (c *CancelToken) Cancel() { c.flag.Store(true) }

// Cancelled reports whether the flag has been set.
func (c *CancelToken) Cancelled() bool { return c.flag.Load() }

// Budget tracks the optional early-stopping bounds (max iteration count,
// max wall time) alongside the cancellation token, and folds either
// bound firing into the same token: once an early-stop threshold is
// exceeded, the planner cancels exactly as if the caller had cancelled
// manually.
type Budget struct {
	Cancel *CancelToken

	MaxIterations *int
	MaxWallTime   *time.Duration

	start      time.Time
	iterations int
}

// NewBudget returns a Budget wired to the given cancel token and optional
// early-stop bounds.
func NewBudget(cancel *CancelToken, maxIterations *int, maxWallTime *time.Duration) *Budget {
	return &Budget{Cancel: cancel, MaxIterations: maxIterations, MaxWallTime: maxWallTime, start: time.Now()}
}

// Tick must be called once per perturbation trial, before the trial
// runs. It returns true once cancellation (manual or early-stop
// triggered) has fired.
func (b *Budget) Tick() bool {
	if b.Cancel.Cancelled() {
		return true
	}
	b.iterations++
	if b.MaxIterations != nil && b.iterations >= *b.MaxIterations {
		b.Cancel.Cancel()
		return true
	}
	if b.MaxWallTime != nil && b.iterations%100 == 0 {
		if time.Since(b.start) >= *b.MaxWallTime {
			b.Cancel.Cancel()
			return true
		}
	}
	return false
}

// Iterations returns the number of trials ticked so far.
func (b *Budget) Iterations() int { return b.iterations }
