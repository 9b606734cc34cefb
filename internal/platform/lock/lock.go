package lock

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker serializes work keyed by name, e.g. one sync pass per season.
type Locker interface {
	// Acquire blocks until the key is held or ctx is done. The returned func releases it.
	Acquire(ctx context.Context, key string) (func(), error)
	// TryAcquire returns ErrNotAcquired at once when the key is held elsewhere.
	TryAcquire(ctx context.Context, key string) (func(), error)
}

// LocalLocker is a per-key mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  *semaphore.Weighted
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	s := l.enter(key)
	if err := s.sem.Acquire(ctx, 1); err != nil {
		l.leave(key, s)
		return nil, errors.Join(ErrNotAcquired, err)
	}
	return l.releaser(key, s), nil
}

func (l *LocalLocker) TryAcquire(_ context.Context, key string) (func(), error) {
	s := l.enter(key)
	if !s.sem.TryAcquire(1) {
		l.leave(key, s)
		return nil, ErrNotAcquired
	}
	return l.releaser(key, s), nil
}

func (l *LocalLocker) enter(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{sem: semaphore.NewWeighted(1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) releaser(key string, s *slot) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.sem.Release(1)
			l.leave(key, s)
		})
	}
}

func (l *LocalLocker) leave(key string, s *slot) {
	l.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
	l.mu.Unlock()
}
