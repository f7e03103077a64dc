package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	got := DoVal(context.Background(), fastConfig(), func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if !got.OK() {
		t.Fatalf("unexpected error: %v", got.Err)
	}
	if got.Value != "ok" || got.Attempts != 1 || calls != 1 {
		t.Errorf("got %+v after %d calls", got, calls)
	}
}

func TestDoVal_SuccessAfterRetry(t *testing.T) {
	var calls int
	got := DoVal(context.Background(), fastConfig(), func(_ context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, NewTransientError(errors.New("temporary"), 503)
		}
		return 42, nil
	})
	if !got.OK() {
		t.Fatalf("unexpected error: %v", got.Err)
	}
	if got.Value != 42 || got.Attempts != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestDoVal_ExhaustsRetries(t *testing.T) {
	var calls int
	got := DoVal(context.Background(), fastConfig(), func(_ context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("always fails"), 500)
	})
	if got.OK() {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 || got.Attempts != 3 {
		t.Errorf("expected 3 calls, got %d (attempts %d)", calls, got.Attempts)
	}
}

func TestDoVal_NonTransientError_NoRetry(t *testing.T) {
	var calls int
	got := DoVal(context.Background(), fastConfig(), func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("permanent error: bad request")
	})
	if got.OK() {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for non-transient error, got %d", calls)
	}
}

func TestDoVal_RetryAlways(t *testing.T) {
	cfg := fastConfig()
	cfg.ShouldRetry = RetryAlways

	var calls int
	got := DoVal(context.Background(), cfg, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("unexpected payload")
	})
	if got.OK() {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected every error class to be retried, got %d calls", calls)
	}
}

func TestDoVal_OnRetryReceivesSchedule(t *testing.T) {
	cfg := fastConfig()
	cfg.ShouldRetry = RetryAlways

	var waits []time.Duration
	var attempts []int
	cfg.OnRetry = func(attempt int, _ error, delay time.Duration) {
		attempts = append(attempts, attempt)
		waits = append(waits, delay)
	}

	start := time.Now()
	_ = DoVal(context.Background(), cfg, func(_ context.Context) (int, error) {
		return 0, errors.New("fail")
	})
	elapsed := time.Since(start)

	if len(waits) != 2 {
		t.Fatalf("expected 2 waits between 3 attempts, got %d", len(waits))
	}
	if waits[0] != time.Millisecond || waits[1] != 2*time.Millisecond {
		t.Errorf("unexpected waits %v", waits)
	}
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected attempt numbers %v", attempts)
	}
	if elapsed < 3*time.Millisecond {
		t.Errorf("expected at least 3ms of backoff, got %v", elapsed)
	}
}

func TestDoVal_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		ShouldRetry:    RetryAlways,
	}

	var calls int
	got := DoVal(ctx, cfg, func(_ context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	})
	if got.OK() {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call after cancellation, got %d", calls)
	}
}

func TestSchedule_DefaultIsOneThenTwo(t *testing.T) {
	delays := Schedule(DefaultRetryConfig())
	if len(delays) != 2 {
		t.Fatalf("expected 2 delays, got %v", delays)
	}
	var total time.Duration
	for _, d := range delays {
		total += d
	}
	if delays[0] != time.Second || delays[1] != 2*time.Second || total != 3*time.Second {
		t.Errorf("unexpected schedule %v (total %v)", delays, total)
	}
}

func TestSchedule_RespectsMaxBackoff(t *testing.T) {
	delays := Schedule(RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     3 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.5,
	})
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestComputeBackoff_Jitter(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		Multiplier:     2,
		JitterFraction: 0.25,
	}
	for i := 0; i < 50; i++ {
		d := computeBackoff(0, cfg)
		if d < 75*time.Millisecond || d > 125*time.Millisecond {
			t.Fatalf("jittered delay %v out of range", d)
		}
	}
}
