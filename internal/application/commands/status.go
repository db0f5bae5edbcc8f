package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// StatusResult contains the diagnostic snapshot of the service
type StatusResult struct {
	Stats   structure.Stats
	Message string
}

// StatusCommand reports cache and lock table sizes
type StatusCommand struct {
	svc *structure.Service
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(svc *structure.Service) *StatusCommand {
	return &StatusCommand{svc: svc}
}

// Execute runs the status command
func (c *StatusCommand) Execute(_ context.Context) (*StatusResult, error) {
	stats := c.svc.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "root cache:      %d\n", stats.Cache.RootEntries)
	fmt.Fprintf(&b, "year cache:      %d\n", stats.Cache.YearEntries)
	fmt.Fprintf(&b, "note cache:      %d\n", stats.Cache.NoteEntries)
	fmt.Fprintf(&b, "snapshot cache:  %d\n", stats.Cache.SnapshotEntries)
	fmt.Fprintf(&b, "inflight locks:  %d", stats.InflightLocks)

	return &StatusResult{Stats: stats, Message: b.String()}, nil
}

func formatStructureSummary(fs domain.FolderStructure) string {
	return fmt.Sprintf("Structure ready: root=%s year=%s months=%d/12 annual=%s",
		fs.RootFolderID, fs.YearFolderID, fs.MonthCount(), fs.AnnualNoteID)
}
