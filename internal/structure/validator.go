package structure

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/ports"
)

// Validator performs read-only integrity checks against the remote
// store. It never creates anything; a false result tells the caller to
// rebuild. Checks run in order and short-circuit on the first failure:
// root folder by title, current-year folder under root, the new-expenses
// note in root, and finally that the note is actually readable.
type Validator struct {
	store     ports.NoteStore
	rootTitle string
	now       func() time.Time
	log       zerolog.Logger
}

// NewValidator returns a validator for the given root folder title.
func NewValidator(store ports.NoteStore, rootTitle string, log zerolog.Logger) *Validator {
	return &Validator{
		store:     store,
		rootTitle: rootTitle,
		now:       time.Now,
		log:       log,
	}
}

// IsValid reports whether a previously initialized hierarchy is still
// intact.
func (v *Validator) IsValid(ctx context.Context) bool {
	rootID, ok := v.findFolder(ctx, "", v.rootTitle)
	if !ok {
		v.log.Debug().Str("title", v.rootTitle).Msg("root folder missing")
		return false
	}

	year := v.now().Format("2006")
	if _, ok := v.findFolder(ctx, rootID, year); !ok {
		v.log.Debug().Str("year", year).Msg("year folder missing")
		return false
	}

	noteID, ok := v.findNote(ctx, rootID, domain.NewExpensesTitle)
	if !ok {
		v.log.Debug().Str("title", domain.NewExpensesTitle).Msg("utility note missing")
		return false
	}

	if _, err := v.store.GetNote(ctx, noteID); err != nil {
		v.log.Debug().Err(err).Str("note_id", noteID).Msg("utility note unreadable")
		return false
	}

	return true
}

func (v *Validator) findFolder(ctx context.Context, parentID, title string) (string, bool) {
	folders, err := v.store.ListChildFolders(ctx, parentID)
	if err != nil {
		v.log.Debug().Err(err).Str("parent_id", parentID).Msg("folder listing failed during validation")
		return "", false
	}
	for _, folder := range folders {
		if folder.ParentID != parentID {
			continue
		}
		if folder.Title == title {
			return folder.ID, true
		}
	}
	return "", false
}

func (v *Validator) findNote(ctx context.Context, parentID, title string) (string, bool) {
	notes, err := v.store.ListChildNotes(ctx, parentID)
	if err != nil {
		v.log.Debug().Err(err).Str("parent_id", parentID).Msg("note listing failed during validation")
		return "", false
	}
	for _, note := range notes {
		if note.ParentID != parentID {
			continue
		}
		if note.Title == title {
			return note.ID, true
		}
	}
	return "", false
}
