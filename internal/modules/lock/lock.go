// Package lock provides the per-user mutual-exclusion gate held for the
// duration of one workflow.
package lock

import (
	"context"
	"sync"
	"time"
)

// Locker is the mutual-exclusion contract. Acquire is non-blocking: a held
// key returns false immediately. There is no staleness detection; a crashed
// holder blocks its user until the backing store is cleared.
type Locker interface {
	TryAcquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string) error
}

// MemoryLocker keys locks in an in-process map. Suitable for single-process
// deployments and tests.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time)}
}

func (l *MemoryLocker) TryAcquire(_ context.Context, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[userID]; ok {
		return false, nil
	}
	l.held[userID] = time.Now()
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, userID)
	return nil
}
