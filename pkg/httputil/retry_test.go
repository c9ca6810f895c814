package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("not found")

	tests := []struct {
		name      string
		attempts  int
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 2, 0, nil, 1, false},
		{"non-retryable stops", 3, 5, permanent, 1, true},
		{"retry then succeed", 2, 1, Retryable(errTransient), 2, false},
		{"retries exhausted", 2, 5, Retryable(errTransient), 2, true},
		{"zero attempts runs once", 0, 5, Retryable(errTransient), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryReadRetriesOnce(t *testing.T) {
	calls := 0
	err := RetryRead(context.Background(), func() error {
		calls++
		return Retryable(errTransient)
	})
	if !errors.Is(err, errTransient) {
		t.Errorf("RetryRead() error = %v", err)
	}
	if calls != ReadAttempts {
		t.Errorf("calls = %d, want %d", calls, ReadAttempts)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
