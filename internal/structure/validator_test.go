package structure

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
)

func newTestValidator(store *fakeStore) *Validator {
	v := NewValidator(store, "expenses", zerolog.Nop())
	v.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return v
}

func TestValidatorAcceptsIntactStructure(t *testing.T) {
	store := newFakeStore()
	builder, _ := newTestBuilder(store)
	if _, err := builder.EnsureYearStructure(context.Background(), "2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !newTestValidator(store).IsValid(context.Background()) {
		t.Error("expected intact structure to validate")
	}
}

func TestValidatorRejectsEmptyStore(t *testing.T) {
	if newTestValidator(newFakeStore()).IsValid(context.Background()) {
		t.Error("expected empty store to fail validation")
	}
}

func TestValidatorRejectsMissingYearFolder(t *testing.T) {
	store := newFakeStore()
	builder, _ := newTestBuilder(store)
	// Only a prior year exists; the current-year check must fail.
	if _, err := builder.EnsureYearStructure(context.Background(), "2024"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if newTestValidator(store).IsValid(context.Background()) {
		t.Error("expected missing current-year folder to fail validation")
	}
}

func TestValidatorRejectsMissingUtilityNote(t *testing.T) {
	store := newFakeStore()
	builder, _ := newTestBuilder(store)
	if _, err := builder.EnsureYearStructure(context.Background(), "2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.deleteNoteByTitle(domain.NewExpensesTitle)

	if newTestValidator(store).IsValid(context.Background()) {
		t.Error("expected missing new-expenses note to fail validation")
	}
}

func TestRebuildAfterValidationFailureCreatesOnlyMissing(t *testing.T) {
	store := newFakeStore()
	builder, _ := newTestBuilder(store)
	if _, err := builder.EnsureYearStructure(context.Background(), "2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.deleteNoteByTitle(domain.NewExpensesTitle)

	folderCreates := store.totalFolderCreates()
	noteCreates := store.totalNoteCreates()

	// Fresh caches, as a real rebuild would have after invalidation.
	rebuilt, _ := newTestBuilder(store)
	fs, err := rebuilt.EnsureYearStructure(context.Background(), "2025")
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	if got := store.totalFolderCreates(); got != folderCreates {
		t.Errorf("rebuild duplicated folders: %d -> %d", folderCreates, got)
	}
	if got := store.totalNoteCreates(); got != noteCreates+1 {
		t.Errorf("expected exactly one new note, creations went %d -> %d", noteCreates, got)
	}
	if fs.NewExpensesID == "" {
		t.Error("rebuild did not restore the new-expenses note")
	}
}
