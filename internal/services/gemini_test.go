package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetries_SucceedsAfterTransientFailures(t *testing.T) {
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = old }()

	calls := 0
	err := withRetries(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestWithRetries_ReturnsLastErrorWhenExhausted(t *testing.T) {
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = old }()

	calls := 0
	err := withRetries(context.Background(), 2, func() error {
		calls++
		return errors.New("still down")
	})
	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if err.Error() != "still down" {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestWithRetries_NonPositiveAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := withRetries(context.Background(), 0, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", calls)
	}
}

func TestWithRetries_CancelledContextAbortsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetries(ctx, 3, func() error {
		calls++
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected retries to stop after cancellation, got %d attempts", calls)
	}
}
