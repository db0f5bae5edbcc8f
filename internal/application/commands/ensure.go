package commands

import (
	"context"
	"fmt"

	"github.com/awcjack/joplin-expenses-sub001/internal/application"
	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// EnsureStructureResult contains the result of ensuring a year's hierarchy
type EnsureStructureResult struct {
	Structure domain.FolderStructure
	Message   string
}

// EnsureStructureCommand materializes the expense hierarchy for one year
type EnsureStructureCommand struct {
	svc  *structure.Service
	Year string
}

// NewEnsureStructureCommand creates a new EnsureStructureCommand
func NewEnsureStructureCommand(svc *structure.Service, year string) *EnsureStructureCommand {
	return &EnsureStructureCommand{svc: svc, Year: year}
}

// Validate checks if the ensure operation is valid
func (c *EnsureStructureCommand) Validate() error {
	if c.Year == "" {
		return fmt.Errorf("%w: year is required", application.ErrInvalidYear)
	}
	if !isYear(c.Year) {
		return fmt.Errorf("%w: expected four-digit year, got: %s", application.ErrInvalidYear, c.Year)
	}
	return nil
}

// Execute runs the ensure command
func (c *EnsureStructureCommand) Execute(ctx context.Context) (*EnsureStructureResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fs, err := c.svc.EnsureYearStructure(ctx, c.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure structure for %s: %w", c.Year, err)
	}

	return &EnsureStructureResult{
		Structure: fs,
		Message:   fmt.Sprintf("Structure ready for %s (%d of 12 month notes)", c.Year, fs.MonthCount()),
	}, nil
}

func isYear(year string) bool {
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
