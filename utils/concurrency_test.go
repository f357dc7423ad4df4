package utils

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeySetNoDuplicates(t *testing.T) {
	s := NewKeySet()

	if !s.Add("https://www.jumia.ma/p-1.html") {
		t.Error("first Add should return true")
	}
	if s.Add("https://www.jumia.ma/p-1.html") {
		t.Error("second Add of same key should return false")
	}
	if !s.Add("") || !s.Add("") {
		t.Error("empty keys should always be accepted")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestKeySetConcurrency(t *testing.T) {
	s := NewKeySet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		pool.Submit(context.Background(), func(context.Context) {
			if s.Add("B0SAME0001") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 50
	pool := NewWorkerPool(1, rateLimitMs)

	var (
		mu         sync.Mutex
		timestamps []time.Time
	)
	for i := 0; i < 3; i++ {
		pool.Submit(context.Background(), func(context.Context) {
			mu.Lock()
			timestamps = append(timestamps, time.Now())
			mu.Unlock()
		})
	}
	pool.Wait()

	min := time.Duration(rateLimitMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		if gap := timestamps[i].Sub(timestamps[i-1]); gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestWorkerPoolSkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	pool := NewWorkerPool(2, 0)
	pool.Submit(ctx, func(context.Context) { atomic.AddInt64(&ran, 1) })
	pool.Wait()

	if ran != 0 {
		t.Errorf("job ran %d times after cancellation", ran)
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLoggerTo(io.Discard, LevelDebug)}

	calls := 0
	err := r.Do(context.Background(), "load page", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("blocked")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}

	err := r.Do(context.Background(), "load page", func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}

	calls := 0
	err := r.Do(ctx, "load page", func(context.Context) error {
		calls++
		cancel()
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
