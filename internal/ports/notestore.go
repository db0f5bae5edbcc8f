package ports

import (
	"context"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
)

// NoteStore defines the remote note-storage operations the structure
// layer depends on. Implementations must return complete listings
// (walking every page internally); callers still re-filter results by
// exact parent id before trusting membership. Create and update calls
// are attempted at most once per invocation.
type NoteStore interface {
	// ListChildFolders returns the folders under parentID. An empty
	// parentID means the top level of the store.
	ListChildFolders(ctx context.Context, parentID string) ([]domain.Folder, error)

	// ListChildNotes returns the notes under parentID, without bodies.
	ListChildNotes(ctx context.Context, parentID string) ([]domain.Note, error)

	// GetNote returns a single note including its body.
	GetNote(ctx context.Context, id string) (domain.Note, error)

	CreateFolder(ctx context.Context, parentID, title string) (domain.Folder, error)
	CreateNote(ctx context.Context, parentID, title, body string) (domain.Note, error)
	UpdateNoteBody(ctx context.Context, id, body string) error
}
