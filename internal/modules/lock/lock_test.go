package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMemoryLockerExclusive(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	ok, err := l.TryAcquire(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("first acquire should succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = l.TryAcquire(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("second acquire for the same user should fail")
	}

	ok, err = l.TryAcquire(ctx, "user-2")
	if err != nil || !ok {
		t.Errorf("acquire for a different user should succeed, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryLockerReleaseAllowsReacquire(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	if ok, _ := l.TryAcquire(ctx, "user-1"); !ok {
		t.Fatal("first acquire should succeed")
	}
	if err := l.Release(ctx, "user-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if ok, _ := l.TryAcquire(ctx, "user-1"); !ok {
		t.Error("acquire after release should succeed")
	}
}

func TestMemoryLockerReleaseUnheldIsNoOp(t *testing.T) {
	l := NewMemoryLocker()
	if err := l.Release(context.Background(), "user-1"); err != nil {
		t.Errorf("releasing an unheld lock should not fail: %v", err)
	}
}

func TestMemoryLockerConcurrentAcquire(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.TryAcquire(ctx, "user-1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := acquired.Load(); got != 1 {
		t.Errorf("expected exactly one goroutine to acquire the lock, got %d", got)
	}
}
