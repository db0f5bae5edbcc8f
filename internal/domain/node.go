package domain

import "fmt"

// Folder is a container node in the remote note store.
type Folder struct {
	ID       string
	Title    string
	ParentID string
}

// Note is a leaf document node. Listing results carry an empty Body;
// only GetNote returns the full content.
type Note struct {
	ID       string
	Title    string
	ParentID string
	Body     string
}

// FolderStructure locates every node of one year's expense hierarchy.
// It is a recomputable snapshot: safe to discard and rebuild at any time.
// MonthNoteIDs is indexed by month-1; a slot stays empty when that
// month's note could not be created.
type FolderStructure struct {
	RootFolderID        string
	YearFolderID        string
	MonthNoteIDs        [12]string
	AnnualNoteID        string
	NewExpensesID       string
	RecurringExpensesID string
}

// MonthCount returns how many month notes were actually resolved.
func (fs FolderStructure) MonthCount() int {
	count := 0
	for _, id := range fs.MonthNoteIDs {
		if id != "" {
			count++
		}
	}
	return count
}

// Snapshot is a flat listing of the whole hierarchy under the root folder.
type Snapshot struct {
	Folders []Folder
	Notes   []Note
}

// MonthTitle returns the zero-padded note title for a month number (1-12).
func MonthTitle(month int) string {
	return fmt.Sprintf("%02d", month)
}
