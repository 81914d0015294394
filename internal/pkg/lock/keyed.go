// Package lock provides keyed mutual exclusion with a bounded wait.
// The engine serializes all commands for one employee through a lock keyed
// by employee id; commands for different employees share nothing.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrAcquireTimeout is returned when the bounded wait elapses before the
// key's holder releases it.
var ErrAcquireTimeout = errors.New("timed out waiting for key lock")

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Keyed hands out one exclusive slot per key. Entries are created on demand
// and removed once the last waiter is gone, so the table stays proportional
// to in-flight keys rather than all keys ever seen.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

func NewKeyed(wait time.Duration) *Keyed {
	return &Keyed{
		entries: make(map[string]*entry),
		wait:    wait,
	}
}

// Acquire blocks until the key is exclusively held, the configured wait
// elapses (ErrAcquireTimeout), or ctx is done. On success the returned
// release function must be called exactly once.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, k.wait)
	defer cancel()

	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		k.put(key, e)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrAcquireTimeout
		}
		return nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			e.sem.Release(1)
			k.put(key, e)
		})
	}
	return release, nil
}

func (k *Keyed) put(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// Len returns the number of keys currently tracked.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
