package scraper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4, 8)
	results := pool.Run(context.Background())

	var ran int64
	for i := 0; i < 20; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}
	pool.Close()

	count := 0
	for res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected task error: %v", res.Err)
		}
		count++
	}

	if count != 20 {
		t.Fatalf("expected 20 results, got %d", count)
	}
	if got := atomic.LoadInt64(&ran); got != 20 {
		t.Fatalf("expected 20 tasks run, got %d", got)
	}
}

func TestWorkerPool_RateLimitSpacesTasks(t *testing.T) {
	pool := NewWorkerPool(4, 16)
	pool.SetRateLimit(50) // one task slot every 20ms

	results := pool.Run(context.Background())
	start := time.Now()

	for i := 0; i < 10; i++ {
		pool.Submit(func(ctx context.Context) error { return nil })
	}
	pool.Close()

	count := 0
	for res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected task error: %v", res.Err)
		}
		count++
	}
	elapsed := time.Since(start)

	if count != 10 {
		t.Fatalf("expected 10 results, got %d", count)
	}
	// 10 tasks at 50/s need at least ~200ms; allow generous scheduling slack
	// but catch the limiter being ignored entirely.
	if elapsed < 150*time.Millisecond {
		t.Fatalf("tasks finished in %v, rate limit not applied", elapsed)
	}
}

func TestWorkerPool_ReportsTaskErrors(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	results := pool.Run(context.Background())

	pool.Submit(func(ctx context.Context) error { return nil })
	pool.Submit(func(ctx context.Context) error { return fmt.Errorf("boom") })
	pool.Close()

	errCount := 0
	for res := range results {
		if res.Err != nil {
			errCount++
		}
	}
	if errCount != 1 {
		t.Fatalf("expected 1 failed task, got %d", errCount)
	}
}

func TestWorkerPool_ContextCancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(2, 0)
	results := pool.Run(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		for range results {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop after context cancellation")
	}
}
