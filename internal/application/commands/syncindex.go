package commands

import (
	"context"
	"fmt"

	"github.com/awcjack/joplin-expenses-sub001/internal/adapters/sqlite"
	"github.com/awcjack/joplin-expenses-sub001/internal/application"
	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// SyncIndexResult contains the result of rebuilding the local index
type SyncIndexResult struct {
	Entries int
	Message string
}

// SyncIndexCommand re-reads every month note of a year and replaces the
// local SQLite index with the parsed entries
type SyncIndexCommand struct {
	svc  *structure.Service
	idx  *sqlite.Index
	Year string
}

// NewSyncIndexCommand creates a new SyncIndexCommand
func NewSyncIndexCommand(svc *structure.Service, idx *sqlite.Index, year string) *SyncIndexCommand {
	return &SyncIndexCommand{svc: svc, idx: idx, Year: year}
}

// Validate checks if the sync operation is valid
func (c *SyncIndexCommand) Validate() error {
	if !isYear(c.Year) {
		return fmt.Errorf("%w: expected four-digit year, got: %s", application.ErrInvalidYear, c.Year)
	}
	return nil
}

// Execute runs the sync command
func (c *SyncIndexCommand) Execute(ctx context.Context) (*SyncIndexResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fs, err := c.svc.EnsureYearStructure(ctx, c.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure structure for %s: %w", c.Year, err)
	}

	store := c.svc.Store()
	total := 0
	for i, noteID := range fs.MonthNoteIDs {
		if noteID == "" {
			continue
		}
		note, err := store.GetNote(ctx, noteID)
		if err != nil {
			return nil, fmt.Errorf("failed to read month note %s: %w", noteID, err)
		}
		entries := domain.ParseEntryTable(note.Body)
		if err := c.idx.ReplaceMonth(noteID, c.Year, i+1, entries); err != nil {
			return nil, fmt.Errorf("failed to index month %02d: %w", i+1, err)
		}
		total += len(entries)
	}

	return &SyncIndexResult{
		Entries: total,
		Message: fmt.Sprintf("Indexed %d entries for %s", total, c.Year),
	}, nil
}
