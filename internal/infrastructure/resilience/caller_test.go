package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:         3,
		InitialBackoff:      time.Millisecond,
		MaxBackoff:          2 * time.Millisecond,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	}
}

func TestCallRetriesRetryableErrors(t *testing.T) {
	attempts := 0
	caller := NewCaller("test", fastPolicy(), func(error) Classification {
		return Classification{Retry: true, CountFailure: true}
	}, nil)

	err := caller.Call(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestCallStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	permanent := errors.New("bad request")
	caller := NewCaller("test", fastPolicy(), func(err error) Classification {
		return Classification{Retry: false, CountFailure: false}
	}, nil)

	err := caller.Call(context.Background(), "op", func(context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected single attempt, got %d", attempts)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("backend down")
	caller := NewCaller("test", fastPolicy(), func(error) Classification {
		return Classification{Retry: false, CountFailure: true}
	}, nil)

	for i := 0; i < 5; i++ {
		_ = caller.Call(context.Background(), "op", func(context.Context) error { return boom })
	}

	err := caller.Call(context.Background(), "op", func(context.Context) error { return nil })
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestCallHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	caller := NewCaller("test", fastPolicy(), nil, nil)
	err := caller.Call(ctx, "op", func(context.Context) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
