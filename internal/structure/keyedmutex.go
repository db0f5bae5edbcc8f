package structure

import (
	"context"
	"sort"
	"sync"
	"time"
)

const lockTableMax = 100

type lockEntry struct {
	done       chan struct{}
	insertedAt time.Time
}

// KeyedMutex serializes operations sharing a string key. A caller whose
// key has an operation in flight waits for that operation to settle
// (its outcome is ignored) and then runs its own attempt; operations are
// expected to re-check the cache before touching the remote store, so a
// waiter whose work was already done by the previous holder performs no
// remote write. Operations on distinct keys run concurrently.
type KeyedMutex struct {
	mu       sync.Mutex
	inflight map[string]*lockEntry
	max      int
}

// NewKeyedMutex returns an empty lock table.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		inflight: make(map[string]*lockEntry),
		max:      lockTableMax,
	}
}

// Do runs fn under the lock for key. Waiting for a prior holder is
// interruptible through ctx; an operation that has started always runs
// to completion. The error of fn is returned to its own caller and is
// never remembered against the key.
func (m *KeyedMutex) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	for {
		m.mu.Lock()
		cur, ok := m.inflight[key]
		if !ok {
			entry := &lockEntry{
				done:       make(chan struct{}),
				insertedAt: time.Now(),
			}
			m.inflight[key] = entry
			m.mu.Unlock()

			err := fn(ctx)

			m.mu.Lock()
			// A superseded entry must not erase a newer one.
			if m.inflight[key] == entry {
				delete(m.inflight, key)
			}
			m.mu.Unlock()
			close(entry.done)
			m.Trim()
			return err
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-cur.done:
		}
	}
}

// Len reports the number of published lock entries.
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inflight)
}

// Trim drops settled entries beyond the table bound, oldest-inserted
// first. An entry backing an operation that has not settled is never
// removed, so active waits are never broken.
func (m *KeyedMutex) Trim() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inflight) <= m.max {
		return
	}

	type agedKey struct {
		key        string
		insertedAt time.Time
	}
	var settled []agedKey
	for key, entry := range m.inflight {
		select {
		case <-entry.done:
			settled = append(settled, agedKey{key, entry.insertedAt})
		default:
		}
	}
	sort.Slice(settled, func(i, j int) bool {
		return settled[i].insertedAt.Before(settled[j].insertedAt)
	})
	for _, aged := range settled {
		if len(m.inflight) <= m.max {
			return
		}
		delete(m.inflight, aged.key)
	}
}
