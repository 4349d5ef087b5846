package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 3 {
		t.Errorf("expected default burst 3 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://api.semanticscholar.org/graph/v1/paper/DOI:10.1/x"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	// Different host draws from a separate bucket
	if err := limiter.Wait(ctx, "https://api.openalex.org/works/doi:10.1/x"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHostIsolation(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	// Exhaust host A's burst, then host B must still pass immediately.
	if err := limiter.Wait(ctx, "https://a.example/x"); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "https://b.example/y"); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Error("second host was throttled by first host's bucket")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetHostRate("api.openalex.org", 100, 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "https://api.openalex.org/works"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx := context.Background()

	// Consume the single token.
	if err := limiter.Wait(ctx, "https://slow.example/x"); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	cancelled, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(cancelled, "https://slow.example/x"); err == nil {
		t.Error("expected error when context expires before clearance")
	}
}
