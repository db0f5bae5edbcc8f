package structure

import (
	"sync"
	"time"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
)

// DefaultCacheTTL bounds the life of every cache entry.
const DefaultCacheTTL = 5 * time.Minute

const (
	rootCacheMax     = 1
	yearCacheMax     = 50
	noteCacheMax     = 200
	snapshotCacheMax = 1

	rootCacheKey     = "root"
	snapshotCacheKey = "hierarchy"
)

type cacheEntry[V any] struct {
	value      V
	insertedAt time.Time
}

// cacheTable is one bounded TTL table. Reads never refresh the
// timestamp; an overwrite refreshes the timestamp but keeps the key's
// original insertion-order position, so eviction stays oldest-first.
type cacheTable[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	entries map[string]cacheEntry[V]
	order   []string
}

func newCacheTable[V any](ttl time.Duration, max int, now func() time.Time) *cacheTable[V] {
	return &cacheTable[V]{
		ttl:     ttl,
		max:     max,
		now:     now,
		entries: make(map[string]cacheEntry[V]),
	}
}

func (t *cacheTable[V]) get(key string) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[key]
	if !ok || t.now().Sub(entry.insertedAt) >= t.ttl {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (t *cacheTable[V]) put(key string, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	t.entries[key] = cacheEntry[V]{value: value, insertedAt: t.now()}
	t.enforceLimitLocked()
}

func (t *cacheTable[V]) invalidate(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *cacheTable[V]) invalidateAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]cacheEntry[V])
	t.order = nil
}

func (t *cacheTable[V]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *cacheTable[V]) enforceLimit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enforceLimitLocked()
}

func (t *cacheTable[V]) enforceLimitLocked() {
	for len(t.entries) > t.max && len(t.order) > 0 {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.entries, oldest)
	}
}

// NoteLookup caches the outcome of a title lookup, including misses.
type NoteLookup struct {
	ID    string
	Found bool
}

// Cache holds the four structure tables: root folder id, per-year
// structures, per-(parent,title) note lookups, and the hierarchy
// snapshot. Every entry expires after the configured TTL and each table
// is independently bounded.
type Cache struct {
	root     *cacheTable[string]
	years    *cacheTable[domain.FolderStructure]
	notes    *cacheTable[NoteLookup]
	snapshot *cacheTable[domain.Snapshot]
}

// NewCache returns an empty cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock is NewCache with an injectable time source.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		root:     newCacheTable[string](ttl, rootCacheMax, now),
		years:    newCacheTable[domain.FolderStructure](ttl, yearCacheMax, now),
		notes:    newCacheTable[NoteLookup](ttl, noteCacheMax, now),
		snapshot: newCacheTable[domain.Snapshot](ttl, snapshotCacheMax, now),
	}
}

func (c *Cache) RootFolderID() (string, bool) {
	return c.root.get(rootCacheKey)
}

func (c *Cache) SetRootFolderID(id string) {
	c.root.put(rootCacheKey, id)
}

func (c *Cache) YearStructure(year string) (domain.FolderStructure, bool) {
	return c.years.get(year)
}

func (c *Cache) SetYearStructure(year string, fs domain.FolderStructure) {
	c.years.put(year, fs)
}

func (c *Cache) InvalidateYear(year string) {
	c.years.invalidate(year)
}

func (c *Cache) NoteLookup(parentID, title string) (NoteLookup, bool) {
	return c.notes.get(noteCacheKey(parentID, title))
}

func (c *Cache) SetNoteLookup(parentID, title string, lookup NoteLookup) {
	c.notes.put(noteCacheKey(parentID, title), lookup)
}

func (c *Cache) Snapshot() (domain.Snapshot, bool) {
	return c.snapshot.get(snapshotCacheKey)
}

func (c *Cache) SetSnapshot(s domain.Snapshot) {
	c.snapshot.put(snapshotCacheKey, s)
}

// InvalidateSnapshot drops the hierarchy snapshot. Called whenever the
// shape of the hierarchy changes.
func (c *Cache) InvalidateSnapshot() {
	c.snapshot.invalidate(snapshotCacheKey)
}

// InvalidateAll clears every table. No interleaved read observes a
// value inserted before the call returned.
func (c *Cache) InvalidateAll() {
	c.root.invalidateAll()
	c.years.invalidateAll()
	c.notes.invalidateAll()
	c.snapshot.invalidateAll()
}

// EnforceLimits re-applies the per-table bounds.
func (c *Cache) EnforceLimits() {
	c.root.enforceLimit()
	c.years.enforceLimit()
	c.notes.enforceLimit()
	c.snapshot.enforceLimit()
}

// CacheStats is a diagnostic snapshot of per-table entry counts.
type CacheStats struct {
	RootEntries     int
	YearEntries     int
	NoteEntries     int
	SnapshotEntries int
}

func (c *Cache) Stats() CacheStats {
	return CacheStats{
		RootEntries:     c.root.len(),
		YearEntries:     c.years.len(),
		NoteEntries:     c.notes.len(),
		SnapshotEntries: c.snapshot.len(),
	}
}

func noteCacheKey(parentID, title string) string {
	return parentID + "/" + title
}
