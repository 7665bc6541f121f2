package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hailam/othelloplay/internal/board"
)

// ErrBusy is returned when a background search is requested while one is running.
var ErrBusy = errors.New("engine is already thinking")

// Job is the handle of a background search.
type Job struct {
	done   chan struct{}
	cancel atomic.Bool
	result Analysis
}

// Done is closed when the search has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the search finishes and returns its result.
func (j *Job) Wait() Analysis {
	<-j.done
	return j.result
}

// Result returns the result if the search has finished.
func (j *Job) Result() (Analysis, bool) {
	select {
	case <-j.done:
		return j.result, true
	default:
		return Analysis{}, false
	}
}

// Cancel asks the search to stop at its next checkpoint. The job still
// completes with the best move found so far.
func (j *Job) Cancel() {
	j.cancel.Store(true)
}

// Thinker runs engine searches in the background, one at a time.
type Thinker struct {
	engine *Engine

	mu      sync.Mutex
	current *Job
}

// NewThinker wraps an engine for background use.
func NewThinker(e *Engine) *Thinker {
	return &Thinker{engine: e}
}

// Busy reports whether a search is in flight.
func (t *Thinker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running()
}

func (t *Thinker) running() bool {
	if t.current == nil {
		return false
	}
	select {
	case <-t.current.done:
		return false
	default:
		return true
	}
}

// Think starts a background search. It returns ErrBusy if one is running.
// Canceling ctx cancels the job.
func (t *Thinker) Think(ctx context.Context, b board.Board, c board.Color, budget time.Duration) (*Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running() {
		return nil, ErrBusy
	}
	return t.start(ctx, b, c, budget), nil
}

// ThinkReplace cancels any running search, waits for it, and starts a new one.
func (t *Thinker) ThinkReplace(ctx context.Context, b board.Board, c board.Color, budget time.Duration) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev := t.current; prev != nil {
		prev.Cancel()
		<-prev.done
	}
	return t.start(ctx, b, c, budget)
}

// Cancel cancels the running search, if any.
func (t *Thinker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.Cancel()
	}
}

func (t *Thinker) start(ctx context.Context, b board.Board, c board.Color, budget time.Duration) *Job {
	job := &Job{done: make(chan struct{})}
	t.current = job

	stop := context.AfterFunc(ctx, job.Cancel)
	go func() {
		defer close(job.done)
		defer stop()
		job.result = t.engine.AnalyzeWithCancel(b, c, budget, &job.cancel)
	}()
	return job
}
