package structure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/ports"
)

// DefaultJanitorInterval is how often the periodic cleanup pass runs.
const DefaultJanitorInterval = 5 * time.Minute

// DefaultRootFolderTitle is the root folder title used when none is
// configured.
const DefaultRootFolderTitle = "expenses"

// Options configures a Service.
type Options struct {
	RootFolderTitle string
	CacheTTL        time.Duration
	JanitorInterval time.Duration
	Logger          zerolog.Logger
	Clock           func() time.Time
}

// Service owns the structure cache, the lock table, and the janitor for
// one process. It is the single entry point callers use to resolve the
// hierarchy; construct it once at startup and Close it before shutdown.
type Service struct {
	store     ports.NoteStore
	cache     *Cache
	locks     *KeyedMutex
	builder   *Builder
	validator *Validator
	rootTitle string
	log       zerolog.Logger
	now       func() time.Time

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewService builds a service over the given store and starts its
// janitor.
func NewService(store ports.NoteStore, opts Options) *Service {
	if opts.RootFolderTitle == "" {
		opts.RootFolderTitle = DefaultRootFolderTitle
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = DefaultJanitorInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	cache := NewCacheWithClock(opts.CacheTTL, opts.Clock)
	locks := NewKeyedMutex()
	validator := NewValidator(store, opts.RootFolderTitle, opts.Logger)
	validator.now = opts.Clock
	s := &Service{
		store:     store,
		cache:     cache,
		locks:     locks,
		builder:   NewBuilder(store, cache, locks, opts.RootFolderTitle, opts.Logger),
		validator: validator,
		rootTitle: opts.RootFolderTitle,
		log:       opts.Logger,
		now:       opts.Clock,
		ticker:    time.NewTicker(opts.JanitorInterval),
		done:      make(chan struct{}),
	}
	go s.janitorLoop()
	return s
}

// EnsureYearStructure resolves or creates the hierarchy for year.
func (s *Service) EnsureYearStructure(ctx context.Context, year string) (domain.FolderStructure, error) {
	if !validYear(year) {
		return domain.FolderStructure{}, fmt.Errorf("invalid year %q: expected four digits", year)
	}
	log := s.log.With().Str("op_id", uuid.New().String()).Str("year", year).Logger()
	log.Debug().Msg("ensuring year structure")
	fs, err := s.builder.EnsureYearStructure(ctx, year)
	if err != nil {
		return domain.FolderStructure{}, err
	}
	log.Debug().Int("months", fs.MonthCount()).Msg("year structure ready")
	return fs, nil
}

// EnsureCurrentYear resolves or creates the hierarchy for the current
// year.
func (s *Service) EnsureCurrentYear(ctx context.Context) (domain.FolderStructure, error) {
	return s.EnsureYearStructure(ctx, s.now().Format("2006"))
}

// Initialize validates the existing hierarchy, drops the caches when it
// is damaged, and then ensures the current year end to end. Validation
// failure is repaired, never surfaced as an error.
func (s *Service) Initialize(ctx context.Context) (domain.FolderStructure, error) {
	if s.validator.IsValid(ctx) {
		s.log.Info().Msg("existing structure intact, warming caches")
	} else {
		s.log.Info().Msg("structure missing or damaged, rebuilding")
		s.cache.InvalidateAll()
	}
	return s.EnsureCurrentYear(ctx)
}

// Validate runs the read-only integrity check.
func (s *Service) Validate(ctx context.Context) bool {
	return s.validator.IsValid(ctx)
}

// HierarchySnapshot returns the cached flat listing of the hierarchy.
func (s *Service) HierarchySnapshot(ctx context.Context) (domain.Snapshot, error) {
	return s.builder.HierarchySnapshot(ctx)
}

// Store exposes the underlying note store for collaborators that read
// or update note bodies directly.
func (s *Service) Store() ports.NoteStore {
	return s.store
}

// RootFolderTitle returns the configured root folder title.
func (s *Service) RootFolderTitle() string {
	return s.rootTitle
}

// InvalidateCaches drops every cached value. Used after structural
// events detected outside the service.
func (s *Service) InvalidateCaches() {
	s.cache.InvalidateAll()
}

// Stats is a diagnostic snapshot for operational visibility.
type Stats struct {
	Cache         CacheStats
	InflightLocks int
}

func (s *Service) Stats() Stats {
	return Stats{
		Cache:         s.cache.Stats(),
		InflightLocks: s.locks.Len(),
	}
}

// Close stops the janitor and clears all state. Safe to call more than
// once.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
		s.cache.InvalidateAll()
	})
}

func (s *Service) janitorLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.cache.EnforceLimits()
			s.locks.Trim()
			stats := s.Stats()
			s.log.Debug().
				Int("year_entries", stats.Cache.YearEntries).
				Int("note_entries", stats.Cache.NoteEntries).
				Int("inflight_locks", stats.InflightLocks).
				Msg("janitor pass")
		}
	}
}

func validYear(year string) bool {
	if len(year) != 4 {
		return false
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
