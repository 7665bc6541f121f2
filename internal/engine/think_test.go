package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestThinkBusy(t *testing.T) {
	b, c := midgame(t)
	th := NewThinker(NewEngine(DefaultConfig()))

	job, err := th.Think(context.Background(), b, c, 5*time.Second)
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if !th.Busy() {
		t.Error("Busy() = false while thinking")
	}
	if _, err := th.Think(context.Background(), b, c, time.Second); !errors.Is(err, ErrBusy) {
		t.Errorf("second Think error = %v, want ErrBusy", err)
	}
	if _, done := job.Result(); done {
		t.Error("Result reported done for a running job")
	}

	start := time.Now()
	th.Cancel()
	a := job.Wait()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("job took %v to stop after Cancel", elapsed)
	}
	if !b.IsLegal(a.Move, c) {
		t.Errorf("canceled job returned illegal move %v", a.Move)
	}
	if th.Busy() {
		t.Error("Busy() = true after the job finished")
	}
	if got, done := job.Result(); !done || got.Move != a.Move {
		t.Errorf("Result = %v, %v after Wait", got.Move, done)
	}
}

func TestThinkReplace(t *testing.T) {
	b, c := midgame(t)
	th := NewThinker(NewEngine(DefaultConfig()))

	first, err := th.Think(context.Background(), b, c, 5*time.Second)
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	second := th.ThinkReplace(context.Background(), b, c, 100*time.Millisecond)

	select {
	case <-first.Done():
	default:
		t.Fatal("ThinkReplace returned before the previous job finished")
	}
	a := second.Wait()
	if !b.IsLegal(a.Move, c) {
		t.Errorf("replacement job returned illegal move %v", a.Move)
	}
}

func TestThinkContextCancel(t *testing.T) {
	b, c := midgame(t)
	th := NewThinker(NewEngine(DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	job, err := th.Think(ctx, b, c, 5*time.Second)
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	cancel()

	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("job still running after context cancel")
	}
	if a := job.Wait(); !b.IsLegal(a.Move, c) {
		t.Errorf("job returned illegal move %v", a.Move)
	}
}
