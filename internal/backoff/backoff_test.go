package backoff

import (
	"context"
	"testing"
	"time"
)

func TestDelayGrowsAndCaps(t *testing.T) {
	p := Policy{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 300 * time.Millisecond},
		{5, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		got := p.Delay(tt.attempt)
		lo := time.Duration(float64(tt.base) * 0.8)
		hi := time.Duration(float64(tt.base) * 1.2)
		if got < lo || got > hi {
			t.Errorf("Delay(%d) = %v, want within [%v, %v]", tt.attempt, got, lo, hi)
		}
	}
}

func TestAttempts(t *testing.T) {
	if got := (Policy{}).Attempts(); got != 1 {
		t.Errorf("Attempts() = %d, want 1", got)
	}
	if got := (Policy{MaxAttempts: 4}).Attempts(); got != 4 {
		t.Errorf("Attempts() = %d, want 4", got)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); err == nil {
		t.Fatal("expected context error")
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
