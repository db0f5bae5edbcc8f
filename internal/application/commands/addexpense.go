package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/awcjack/joplin-expenses-sub001/internal/application"
	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// AddExpenseResult contains the result of appending an expense entry
type AddExpenseResult struct {
	NoteID  string
	Message string
}

// AddExpenseCommand appends an expense row to the month note matching
// the entry date, ensuring the year's hierarchy first
type AddExpenseCommand struct {
	svc         *structure.Service
	Price       string
	Description string
	Category    string
	Date        string
	Shop        string
}

// NewAddExpenseCommand creates a new AddExpenseCommand. An empty date
// defaults to today.
func NewAddExpenseCommand(svc *structure.Service, price, description, category, date, shop string) *AddExpenseCommand {
	if date == "" {
		date = time.Now().Format(domain.EntryDateLayout)
	}
	return &AddExpenseCommand{
		svc:         svc,
		Price:       price,
		Description: description,
		Category:    category,
		Date:        date,
		Shop:        shop,
	}
}

// Validate checks if the entry is well formed
func (c *AddExpenseCommand) Validate() error {
	if c.Price == "" {
		return &application.ValidationError{
			Field:   "price",
			Message: "price is required",
		}
	}
	if _, err := decimal.NewFromString(c.Price); err != nil {
		return &application.ValidationError{
			Field:   "price",
			Message: fmt.Sprintf("invalid amount: %s", c.Price),
		}
	}
	if c.Description == "" {
		return &application.ValidationError{
			Field:   "description",
			Message: "description is required",
		}
	}
	if _, err := time.Parse(domain.EntryDateLayout, c.Date); err != nil {
		return &application.ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("expected YYYY-MM-DD, got: %s", c.Date),
		}
	}
	return nil
}

// Execute runs the add expense command
func (c *AddExpenseCommand) Execute(ctx context.Context) (*AddExpenseResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	price, _ := decimal.NewFromString(c.Price)
	entry := domain.ExpenseEntry{
		Price:       price,
		Description: c.Description,
		Category:    c.Category,
		Date:        c.Date,
		Shop:        c.Shop,
	}

	year, err := entry.Year()
	if err != nil {
		return nil, err
	}
	month, err := entry.Month()
	if err != nil {
		return nil, err
	}

	fs, err := c.svc.EnsureYearStructure(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure structure for %s: %w", year, err)
	}

	noteID := fs.MonthNoteIDs[month-1]
	if noteID == "" {
		return nil, fmt.Errorf("%w: %s-%02d", application.ErrMonthUnavailable, year, month)
	}

	store := c.svc.Store()
	note, err := store.GetNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to read month note: %w", err)
	}
	body := domain.AppendEntryRow(note.Body, entry)
	if err := store.UpdateNoteBody(ctx, noteID, body); err != nil {
		return nil, fmt.Errorf("failed to update month note: %w", err)
	}

	return &AddExpenseResult{
		NoteID:  noteID,
		Message: fmt.Sprintf("Added %s %s to %s-%02d", c.Price, c.Description, year, month),
	}, nil
}
