//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClient struct {
	counts  map[string]int64
	incrErr error
	expires map[string]time.Duration
}

func newFakeClient() *fakeClient {
	return &fakeClient{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.counts[key]++
	return f.counts[key], nil
}
func (f *fakeClient) Expire(ctx context.Context, key string, d time.Duration) error {
	f.expires[key] = d
	return nil
}
func (f *fakeClient) Del(ctx context.Context, keys ...string) error { return nil }
func (f *fakeClient) Close() error                                  { return nil }

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("should allow up to the limit then block", func(t *testing.T) {
		cli := newFakeClient()
		rl := NewRateLimiter(cli)
		key := UserCommandKey(42, "start")

		for i := 0; i < 3; i++ {
			ok, err := rl.Allow(ctx, key, 3, time.Minute)
			if err != nil {
				t.Fatalf("Allow failed: %v", err)
			}
			if !ok {
				t.Fatalf("call %d should be allowed", i+1)
			}
		}
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if ok {
			t.Error("fourth call should be blocked")
		}
		if cli.expires[key] != time.Minute {
			t.Errorf("expected window set on first hit, got %v", cli.expires[key])
		}
	})

	t.Run("should propagate redis errors", func(t *testing.T) {
		cli := newFakeClient()
		cli.incrErr = errors.New("redis down")
		rl := NewRateLimiter(cli)
		if _, err := rl.Allow(ctx, "k", 1, time.Minute); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
