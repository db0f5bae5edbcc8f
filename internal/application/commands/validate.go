package commands

import (
	"context"

	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// ValidateStructureResult contains the result of an integrity check
type ValidateStructureResult struct {
	Valid   bool
	Message string
}

// ValidateStructureCommand runs the read-only structure integrity check
type ValidateStructureCommand struct {
	svc *structure.Service
}

// NewValidateStructureCommand creates a new ValidateStructureCommand
func NewValidateStructureCommand(svc *structure.Service) *ValidateStructureCommand {
	return &ValidateStructureCommand{svc: svc}
}

// Execute runs the validate command
func (c *ValidateStructureCommand) Execute(ctx context.Context) (*ValidateStructureResult, error) {
	if c.svc.Validate(ctx) {
		return &ValidateStructureResult{
			Valid:   true,
			Message: "Structure is intact",
		}, nil
	}
	return &ValidateStructureResult{
		Valid:   false,
		Message: "Structure is missing or damaged; run init to rebuild",
	}, nil
}

// InitializeResult contains the result of a full initialization
type InitializeResult struct {
	Message string
}

// InitializeCommand validates the hierarchy and rebuilds whatever is
// missing for the current year
type InitializeCommand struct {
	svc *structure.Service
}

// NewInitializeCommand creates a new InitializeCommand
func NewInitializeCommand(svc *structure.Service) *InitializeCommand {
	return &InitializeCommand{svc: svc}
}

// Execute runs the initialize command
func (c *InitializeCommand) Execute(ctx context.Context) (*InitializeResult, error) {
	fs, err := c.svc.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	return &InitializeResult{
		Message: formatStructureSummary(fs),
	}, nil
}
