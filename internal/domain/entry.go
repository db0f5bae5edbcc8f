package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryDateLayout is the date format used in expense table rows.
const EntryDateLayout = "2006-01-02"

// ExpenseEntry is one row of an expense table.
type ExpenseEntry struct {
	Price       decimal.Decimal
	Description string
	Category    string
	Date        string // YYYY-MM-DD
	Shop        string
	Attachment  string
	Recurring   string // empty, or a recurrence keyword such as "monthly"
}

// MarkdownRow serializes the entry as a markdown table row matching the
// month note column order.
func (e ExpenseEntry) MarkdownRow() string {
	return fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |",
		e.Price.String(), e.Description, e.Category, e.Date, e.Shop, e.Attachment, e.Recurring)
}

// Month returns the 1-based month number of the entry date.
func (e ExpenseEntry) Month() (int, error) {
	t, err := time.Parse(EntryDateLayout, e.Date)
	if err != nil {
		return 0, fmt.Errorf("invalid entry date %q: %w", e.Date, err)
	}
	return int(t.Month()), nil
}

// Year returns the four-digit year of the entry date.
func (e ExpenseEntry) Year() (string, error) {
	t, err := time.Parse(EntryDateLayout, e.Date)
	if err != nil {
		return "", fmt.Errorf("invalid entry date %q: %w", e.Date, err)
	}
	return t.Format("2006"), nil
}

// ParseEntryRow parses a single markdown table row into an entry.
// Header and separator rows are rejected.
func ParseEntryRow(line string) (ExpenseEntry, error) {
	cells := splitRow(line)
	if len(cells) < 7 {
		return ExpenseEntry{}, fmt.Errorf("expected at least 7 columns, got %d", len(cells))
	}
	if cells[0] == "price" {
		return ExpenseEntry{}, fmt.Errorf("header row")
	}
	if isSeparatorCell(cells[0]) {
		return ExpenseEntry{}, fmt.Errorf("separator row")
	}

	price, err := decimal.NewFromString(cells[0])
	if err != nil {
		return ExpenseEntry{}, fmt.Errorf("invalid price %q: %w", cells[0], err)
	}

	return ExpenseEntry{
		Price:       price,
		Description: cells[1],
		Category:    cells[2],
		Date:        cells[3],
		Shop:        cells[4],
		Attachment:  cells[5],
		Recurring:   cells[6],
	}, nil
}

// ParseEntryTable extracts every valid entry row from a note body.
// Rows that do not parse are skipped.
func ParseEntryTable(body string) []ExpenseEntry {
	var entries []ExpenseEntry
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		entry, err := ParseEntryRow(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// AppendEntryRow appends an entry row to the end of a note body.
func AppendEntryRow(body string, e ExpenseEntry) string {
	trimmed := strings.TrimRight(body, "\n")
	if trimmed == "" {
		return e.MarkdownRow() + "\n"
	}
	return trimmed + "\n" + e.MarkdownRow() + "\n"
}

func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparatorCell(cell string) bool {
	if cell == "" {
		return true
	}
	for _, r := range cell {
		if r != '-' && r != ':' && r != ' ' {
			return false
		}
	}
	return true
}
