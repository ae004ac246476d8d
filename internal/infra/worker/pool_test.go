//go:build !integration

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestPool(t *testing.T) {
	t.Run("should run submitted tasks", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p := NewPool(2, newTestLogger())
		p.Start(ctx)
		defer p.Stop()

		var ran atomic.Int32
		for i := 0; i < 5; i++ {
			if err := p.Submit(func(ctx context.Context) error {
				ran.Add(1)
				return nil
			}); err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}

		deadline := time.Now().Add(2 * time.Second)
		for ran.Load() < 5 {
			if time.Now().After(deadline) {
				t.Fatalf("expected 5 tasks to run, got %d", ran.Load())
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("should reject a nil task", func(t *testing.T) {
		p := NewPool(1, newTestLogger())
		if err := p.Submit(nil); err == nil {
			t.Error("expected an error for a nil task")
		}
	})

	t.Run("should drop tasks when saturated instead of blocking", func(t *testing.T) {
		// Never started, so nothing drains the queue.
		p := NewPool(1, newTestLogger())

		blocked := func(ctx context.Context) error { return nil }
		var dropped bool
		for i := 0; i < 100; i++ {
			if err := p.Submit(blocked); err != nil {
				dropped = true
				break
			}
		}
		if !dropped {
			t.Error("expected saturation to drop a task")
		}
	})

	t.Run("should swallow task errors", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p := NewPool(1, newTestLogger())
		p.Start(ctx)
		defer p.Stop()

		var after atomic.Bool
		if err := p.Submit(func(ctx context.Context) error { return errors.New("boom") }); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := p.Submit(func(ctx context.Context) error {
			after.Store(true)
			return nil
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}

		deadline := time.Now().Add(2 * time.Second)
		for !after.Load() {
			if time.Now().After(deadline) {
				t.Fatal("worker died after a task error")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})
}
