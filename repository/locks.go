package repository

import (
	"context"
	"sync"

	"pointsbot/service"

	"golang.org/x/sync/semaphore"
)

// keyedLocks is a set of mutexes created on demand per key and dropped
// once nobody holds or waits for them
type keyedLocks struct {
	mu      sync.Mutex
	entries map[service.LockKey]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int // holders plus waiters
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[service.LockKey]*lockEntry)}
}

// acquire blocks until the key is held or ctx is done
func (l *keyedLocks) acquire(ctx context.Context, key service.LockKey) error {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	if err := entry.sem.Acquire(ctx, 1); err != nil {
		l.mu.Lock()
		l.unref(key, entry)
		l.mu.Unlock()
		return err
	}
	return nil
}

func (l *keyedLocks) release(key service.LockKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return
	}
	entry.sem.Release(1)
	l.unref(key, entry)
}

func (l *keyedLocks) unref(key service.LockKey, entry *lockEntry) {
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

// size returns the number of live keys
func (l *keyedLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
