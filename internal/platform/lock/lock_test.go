package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	t.Parallel()

	locker := NewLocalLocker()
	var inside, maxInside atomic.Int32

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(context.Background(), "season:bl1:2023")
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer release()

			n := inside.Add(1)
			for {
				cur := maxInside.Load()
				if n <= cur || maxInside.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	if got := maxInside.Load(); got != 1 {
		t.Fatalf("expected exclusive access, max concurrent holders=%d", got)
	}
	if len(locker.slots) != 0 {
		t.Fatalf("expected slots to be cleaned up, got %d", len(locker.slots))
	}
}

func TestLocalLocker_RespectsContext(t *testing.T) {
	t.Parallel()

	locker := NewLocalLocker()
	release, err := locker.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := locker.Acquire(ctx, "k"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
}

func TestLocalLocker_DistinctKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	locker := NewLocalLocker()
	releaseA, err := locker.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := locker.Acquire(ctx, "b")
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}
	releaseB()
}

func TestLocalLocker_TryAcquire(t *testing.T) {
	t.Parallel()

	locker := NewLocalLocker()
	release, err := locker.TryAcquire(context.Background(), "season:bl1:2023")
	if err != nil {
		t.Fatalf("try acquire free key: %v", err)
	}

	started := time.Now()
	if _, err := locker.TryAcquire(context.Background(), "season:bl1:2023"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 50*time.Millisecond {
		t.Fatalf("try acquire must not wait: took %s", elapsed)
	}

	release()
	release()
	again, err := locker.TryAcquire(context.Background(), "season:bl1:2023")
	if err != nil {
		t.Fatalf("try acquire after release: %v", err)
	}
	again()

	if len(locker.slots) != 0 {
		t.Fatalf("expected slots to be cleaned up, got %d", len(locker.slots))
	}
}
