package engine

import (
	"sync/atomic"
	"time"
)

// TimeManager tracks the deadline of one search.
// A search stops when the budget is spent or the cancel flag is raised.
type TimeManager struct {
	budget    time.Duration
	startTime time.Time
	deadline  time.Time
	cancel    *atomic.Bool
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search with the given budget.
// A zero budget means no deadline; cancel may be nil.
func (tm *TimeManager) Init(budget time.Duration, cancel *atomic.Bool) {
	tm.budget = budget
	tm.startTime = time.Now()
	tm.deadline = time.Time{}
	if budget > 0 {
		tm.deadline = tm.startTime.Add(budget)
	}
	tm.cancel = cancel
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Budget returns the time allowed for this search.
func (tm *TimeManager) Budget() time.Duration {
	return tm.budget
}

// Canceled reports whether the cancel flag is raised.
func (tm *TimeManager) Canceled() bool {
	return tm.cancel != nil && tm.cancel.Load()
}

// ShouldStop returns true if the budget is spent or the search was canceled.
func (tm *TimeManager) ShouldStop() bool {
	if tm.Canceled() {
		return true
	}
	return !tm.deadline.IsZero() && !time.Now().Before(tm.deadline)
}
