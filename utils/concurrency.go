package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool runs jobs on a bounded number of goroutines and spaces job
// starts by at least the configured interval.
type WorkerPool struct {
	interval  time.Duration
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu        sync.Mutex
	lastStart time.Time
}

// NewWorkerPool creates a WorkerPool with the given concurrency and rate limit.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		interval:  time.Duration(rateLimitMs) * time.Millisecond,
		semaphore: make(chan struct{}, maxWorkers),
	}
}

// Submit blocks until a worker slot is free, then runs job on it. Jobs
// submitted after ctx is done are skipped.
func (wp *WorkerPool) Submit(ctx context.Context, job func(ctx context.Context)) {
	select {
	case <-ctx.Done():
		return
	case wp.semaphore <- struct{}{}:
	}

	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		if !wp.throttle(ctx) {
			return
		}
		job(ctx)
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) throttle(ctx context.Context) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wait := wp.interval - time.Since(wp.lastStart); wp.interval > 0 && wait > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
	wp.lastStart = time.Now()
	return true
}

// KeySet is a thread-safe set of seen keys (listing links, product IDs).
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if key was newly added. Empty keys are never recorded
// and always report true.
func (s *KeySet) Add(key string) bool {
	if key == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains reports whether key has been added.
func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of distinct keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
