package structure

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCacheTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewCacheWithClock(DefaultCacheTTL, clock.Now)

	cache.SetRootFolderID("root1")
	if id, ok := cache.RootFolderID(); !ok || id != "root1" {
		t.Fatalf("expected fresh entry, got %q ok=%v", id, ok)
	}

	clock.Advance(DefaultCacheTTL - time.Nanosecond)
	if _, ok := cache.RootFolderID(); !ok {
		t.Error("entry expired before the TTL elapsed")
	}

	clock.Advance(time.Nanosecond)
	if _, ok := cache.RootFolderID(); ok {
		t.Error("entry still returned at the TTL boundary")
	}
}

func TestCacheReadDoesNotRefreshTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewCacheWithClock(DefaultCacheTTL, clock.Now)

	cache.SetYearStructure("2025", domain.FolderStructure{RootFolderID: "r"})
	clock.Advance(DefaultCacheTTL / 2)
	if _, ok := cache.YearStructure("2025"); !ok {
		t.Fatal("expected fresh entry")
	}
	clock.Advance(DefaultCacheTTL / 2)
	if _, ok := cache.YearStructure("2025"); ok {
		t.Error("read refreshed the TTL")
	}
}

func TestNoteLookupEvictionIsOldestFirst(t *testing.T) {
	clock := newFakeClock()
	cache := NewCacheWithClock(DefaultCacheTTL, clock.Now)

	for i := 0; i < 201; i++ {
		cache.SetNoteLookup("folder", fmt.Sprintf("title-%03d", i), NoteLookup{ID: fmt.Sprintf("n%d", i), Found: true})
	}

	if got := cache.Stats().NoteEntries; got != 200 {
		t.Fatalf("expected table trimmed to 200, got %d", got)
	}
	if _, ok := cache.NoteLookup("folder", "title-000"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := cache.NoteLookup("folder", "title-200"); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestCacheOverwriteKeepsInsertionPosition(t *testing.T) {
	clock := newFakeClock()
	cache := NewCacheWithClock(DefaultCacheTTL, clock.Now)

	for i := 0; i < 200; i++ {
		cache.SetNoteLookup("folder", fmt.Sprintf("title-%03d", i), NoteLookup{Found: false})
	}
	// Overwriting the oldest key must not move it to the back.
	cache.SetNoteLookup("folder", "title-000", NoteLookup{ID: "n0", Found: true})
	cache.SetNoteLookup("folder", "title-200", NoteLookup{ID: "n200", Found: true})

	if _, ok := cache.NoteLookup("folder", "title-000"); ok {
		t.Error("overwritten oldest entry should still evict first")
	}
	if _, ok := cache.NoteLookup("folder", "title-001"); !ok {
		t.Error("second-oldest entry evicted out of order")
	}
}

func TestYearCacheBound(t *testing.T) {
	clock := newFakeClock()
	cache := NewCacheWithClock(DefaultCacheTTL, clock.Now)

	for y := 2000; y <= 2050; y++ {
		cache.SetYearStructure(fmt.Sprintf("%d", y), domain.FolderStructure{RootFolderID: "r"})
	}
	if got := cache.Stats().YearEntries; got != 50 {
		t.Fatalf("expected 50 year entries, got %d", got)
	}
	if _, ok := cache.YearStructure("2000"); ok {
		t.Error("oldest year survived eviction")
	}
	if _, ok := cache.YearStructure("2050"); !ok {
		t.Error("newest year was evicted")
	}
}

func TestInvalidateAll(t *testing.T) {
	clock := newFakeClock()
	cache := NewCacheWithClock(DefaultCacheTTL, clock.Now)

	cache.SetRootFolderID("root1")
	cache.SetYearStructure("2025", domain.FolderStructure{RootFolderID: "root1"})
	cache.SetNoteLookup("root1", "01", NoteLookup{ID: "n1", Found: true})
	cache.SetSnapshot(domain.Snapshot{Folders: []domain.Folder{{ID: "root1"}}})

	cache.InvalidateAll()

	if _, ok := cache.RootFolderID(); ok {
		t.Error("root entry survived InvalidateAll")
	}
	if _, ok := cache.YearStructure("2025"); ok {
		t.Error("year entry survived InvalidateAll")
	}
	if _, ok := cache.NoteLookup("root1", "01"); ok {
		t.Error("note entry survived InvalidateAll")
	}
	if _, ok := cache.Snapshot(); ok {
		t.Error("snapshot survived InvalidateAll")
	}
	stats := cache.Stats()
	if stats.RootEntries+stats.YearEntries+stats.NoteEntries+stats.SnapshotEntries != 0 {
		t.Errorf("expected empty tables, got %+v", stats)
	}
}
