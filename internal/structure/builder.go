package structure

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/ports"
)

// Builder materializes the expense hierarchy in the remote store,
// creating only what a fresh listing proves absent. Every exists-check
// follows the same pattern: consult the cache, take the key's lock,
// re-check the cache, list, and only then create. Listings are
// re-filtered by exact parent id before matching titles; the store's own
// parent filter is not trusted alone.
type Builder struct {
	store     ports.NoteStore
	cache     *Cache
	locks     *KeyedMutex
	rootTitle string
	log       zerolog.Logger
}

// NewBuilder wires a builder over the given store, cache, and lock table.
func NewBuilder(store ports.NoteStore, cache *Cache, locks *KeyedMutex, rootTitle string, log zerolog.Logger) *Builder {
	return &Builder{
		store:     store,
		cache:     cache,
		locks:     locks,
		rootTitle: rootTitle,
		log:       log,
	}
}

// EnsureRootFolder resolves or creates the root expenses folder.
func (b *Builder) EnsureRootFolder(ctx context.Context) (string, error) {
	if id, ok := b.cache.RootFolderID(); ok {
		return id, nil
	}

	var id string
	err := b.locks.Do(ctx, "folder:root", func(ctx context.Context) error {
		if cached, ok := b.cache.RootFolderID(); ok {
			id = cached
			return nil
		}
		found, ok, err := b.findFolder(ctx, "", b.rootTitle)
		if err != nil {
			return err
		}
		if ok {
			id = found
		} else {
			folder, err := b.store.CreateFolder(ctx, "", b.rootTitle)
			if err != nil {
				return fmt.Errorf("create root folder %q: %w", b.rootTitle, err)
			}
			id = folder.ID
			b.cache.InvalidateSnapshot()
			b.log.Info().Str("folder_id", id).Str("title", b.rootTitle).Msg("created root folder")
		}
		b.cache.SetRootFolderID(id)
		return nil
	})
	return id, err
}

// EnsureFolder resolves or creates a folder with the given title under
// parentID.
func (b *Builder) EnsureFolder(ctx context.Context, parentID, title string) (string, error) {
	var id string
	err := b.locks.Do(ctx, "folder:"+parentID+"/"+title, func(ctx context.Context) error {
		found, ok, err := b.findFolder(ctx, parentID, title)
		if err != nil {
			return err
		}
		if ok {
			id = found
			return nil
		}
		folder, err := b.store.CreateFolder(ctx, parentID, title)
		if err != nil {
			return fmt.Errorf("create folder %q under %q: %w", title, parentID, err)
		}
		id = folder.ID
		b.cache.InvalidateSnapshot()
		b.log.Info().Str("folder_id", id).Str("title", title).Msg("created folder")
		return nil
	})
	return id, err
}

// EnsureNote resolves or creates a note with the given title under
// parentID, using template for the initial body.
func (b *Builder) EnsureNote(ctx context.Context, parentID, title string, template func() string) (string, error) {
	if lookup, ok := b.cache.NoteLookup(parentID, title); ok && lookup.Found {
		return lookup.ID, nil
	}

	var id string
	err := b.locks.Do(ctx, "note:"+parentID+"/"+title, func(ctx context.Context) error {
		lookup, err := b.lookupNote(ctx, parentID, title)
		if err != nil {
			return err
		}
		if lookup.Found {
			id = lookup.ID
			return nil
		}
		note, err := b.store.CreateNote(ctx, parentID, title, template())
		if err != nil {
			return fmt.Errorf("create note %q under %q: %w", title, parentID, err)
		}
		id = note.ID
		b.cache.InvalidateSnapshot()
		b.cache.SetNoteLookup(parentID, title, NoteLookup{ID: id, Found: true})
		b.log.Info().Str("note_id", id).Str("title", title).Msg("created note")
		return nil
	})
	return id, err
}

// EnsureYearStructure resolves or creates the full hierarchy for one
// year: root folder, year folder, twelve month notes, the annual summary
// note, and the utility notes in the root folder. A month note that
// fails to create leaves a gap instead of aborting the whole operation.
func (b *Builder) EnsureYearStructure(ctx context.Context, year string) (domain.FolderStructure, error) {
	if fs, ok := b.cache.YearStructure(year); ok {
		return fs, nil
	}

	var fs domain.FolderStructure
	err := b.locks.Do(ctx, "year:"+year, func(ctx context.Context) error {
		if cached, ok := b.cache.YearStructure(year); ok {
			fs = cached
			return nil
		}

		rootID, err := b.EnsureRootFolder(ctx)
		if err != nil {
			return err
		}
		yearID, err := b.EnsureFolder(ctx, rootID, year)
		if err != nil {
			return fmt.Errorf("ensure year folder %s: %w", year, err)
		}
		fs = domain.FolderStructure{RootFolderID: rootID, YearFolderID: yearID}

		for month := 1; month <= 12; month++ {
			month := month
			title := domain.MonthTitle(month)
			id, err := b.EnsureNote(ctx, yearID, title, func() string {
				return domain.MonthNoteTemplate(month)
			})
			if err != nil {
				b.log.Warn().Err(err).Str("year", year).Str("month", title).
					Msg("month note unavailable, leaving gap")
				continue
			}
			fs.MonthNoteIDs[month-1] = id
		}

		annualID, err := b.EnsureNote(ctx, yearID, year, func() string {
			return domain.AnnualSummaryTemplate(year)
		})
		if err != nil {
			return fmt.Errorf("ensure annual summary for %s: %w", year, err)
		}
		fs.AnnualNoteID = annualID

		newID, err := b.EnsureNote(ctx, rootID, domain.NewExpensesTitle, domain.NewExpensesTemplate)
		if err != nil {
			return fmt.Errorf("ensure %s note: %w", domain.NewExpensesTitle, err)
		}
		fs.NewExpensesID = newID

		recurringID, err := b.EnsureNote(ctx, rootID, domain.RecurringExpensesTitle, domain.RecurringExpensesTemplate)
		if err != nil {
			return fmt.Errorf("ensure %s note: %w", domain.RecurringExpensesTitle, err)
		}
		fs.RecurringExpensesID = recurringID

		if err := b.rewriteAnnualSummary(ctx, year, fs); err != nil {
			b.log.Warn().Err(err).Str("year", year).Msg("annual summary link rewrite failed")
		}

		b.cache.SetYearStructure(year, fs)
		return nil
	})
	return fs, err
}

// HierarchySnapshot returns a flat listing of every folder and note
// under the root folder, cached as one unit.
func (b *Builder) HierarchySnapshot(ctx context.Context) (domain.Snapshot, error) {
	if s, ok := b.cache.Snapshot(); ok {
		return s, nil
	}

	rootID, err := b.EnsureRootFolder(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snapshot domain.Snapshot
	queue := []string{rootID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]

		folders, err := b.store.ListChildFolders(ctx, parentID)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("list folders under %q: %w", parentID, err)
		}
		for _, folder := range folders {
			if folder.ParentID != parentID {
				continue
			}
			snapshot.Folders = append(snapshot.Folders, folder)
			queue = append(queue, folder.ID)
		}

		notes, err := b.store.ListChildNotes(ctx, parentID)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("list notes under %q: %w", parentID, err)
		}
		for _, note := range notes {
			if note.ParentID != parentID {
				continue
			}
			snapshot.Notes = append(snapshot.Notes, note)
		}
	}

	b.cache.SetSnapshot(snapshot)
	return snapshot, nil
}

// rewriteAnnualSummary points the annual summary's marker region at the
// real month note ids. Idempotent: only the bounded region is replaced
// and the note is updated only when the body actually changed.
func (b *Builder) rewriteAnnualSummary(ctx context.Context, year string, fs domain.FolderStructure) error {
	note, err := b.store.GetNote(ctx, fs.AnnualNoteID)
	if err != nil {
		return fmt.Errorf("read annual summary: %w", err)
	}
	section := domain.MonthLinkList(fs.MonthNoteIDs)
	updated, found := domain.ReplaceAnnualSummarySection(note.Body, year, section)
	if !found {
		return fmt.Errorf("annual summary %s is missing its marker region", fs.AnnualNoteID)
	}
	if updated == note.Body {
		return nil
	}
	if err := b.store.UpdateNoteBody(ctx, fs.AnnualNoteID, updated); err != nil {
		return fmt.Errorf("update annual summary: %w", err)
	}
	return nil
}

func (b *Builder) findFolder(ctx context.Context, parentID, title string) (string, bool, error) {
	folders, err := b.store.ListChildFolders(ctx, parentID)
	if err != nil {
		return "", false, fmt.Errorf("list folders under %q: %w", parentID, err)
	}
	for _, folder := range folders {
		if folder.ParentID != parentID {
			continue
		}
		if folder.Title == title {
			return folder.ID, true, nil
		}
	}
	return "", false, nil
}

// lookupNote finds a note by exact title under parentID, caching both
// hits and misses.
func (b *Builder) lookupNote(ctx context.Context, parentID, title string) (NoteLookup, error) {
	if lookup, ok := b.cache.NoteLookup(parentID, title); ok {
		return lookup, nil
	}
	notes, err := b.store.ListChildNotes(ctx, parentID)
	if err != nil {
		return NoteLookup{}, fmt.Errorf("list notes under %q: %w", parentID, err)
	}
	lookup := NoteLookup{}
	for _, note := range notes {
		if note.ParentID != parentID {
			continue
		}
		if note.Title == title {
			lookup = NoteLookup{ID: note.ID, Found: true}
			break
		}
	}
	b.cache.SetNoteLookup(parentID, title, lookup)
	return lookup, nil
}
