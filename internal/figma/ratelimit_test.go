package figma

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter_DefaultInterval(t *testing.T) {
	l := NewLimiter(0)
	if l == nil {
		t.Fatal("NewLimiter should not return nil")
	}
}

func TestLimiter_FirstAcquireImmediate(t *testing.T) {
	l := NewLimiter(time.Second)

	start := time.Now()
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first acquire should be immediate, took %v", elapsed)
	}
}

func TestLimiter_SequentialAcquiresSpaced(t *testing.T) {
	interval := 120 * time.Millisecond
	l := NewLimiter(interval)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	start := time.Now()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval-10*time.Millisecond {
		t.Errorf("second acquire should wait ~%v, waited %v", interval, elapsed)
	}
}

func TestLimiter_AcquireRespectsContext(t *testing.T) {
	l := NewLimiter(time.Hour)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := l.Acquire(cancelled); err == nil {
		t.Error("expected acquire to fail when context expires before the interval")
	}
}
