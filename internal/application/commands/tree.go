package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// TreeResult contains the rendered hierarchy
type TreeResult struct {
	Snapshot domain.Snapshot
	Message  string
}

// TreeCommand renders the cached hierarchy snapshot as an indented tree
type TreeCommand struct {
	svc       *structure.Service
	RootTitle string
}

// NewTreeCommand creates a new TreeCommand
func NewTreeCommand(svc *structure.Service, rootTitle string) *TreeCommand {
	return &TreeCommand{svc: svc, RootTitle: rootTitle}
}

// Execute runs the tree command
func (c *TreeCommand) Execute(ctx context.Context) (*TreeResult, error) {
	snapshot, err := c.svc.HierarchySnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hierarchy: %w", err)
	}

	byParent := make(map[string][]domain.Folder)
	for _, folder := range snapshot.Folders {
		byParent[folder.ParentID] = append(byParent[folder.ParentID], folder)
	}
	notesByParent := make(map[string][]domain.Note)
	for _, note := range snapshot.Notes {
		notesByParent[note.ParentID] = append(notesByParent[note.ParentID], note)
	}

	var b strings.Builder
	b.WriteString(c.RootTitle + "\n")

	rootID := ""
	if len(snapshot.Folders) > 0 {
		// Folders are collected top-down, so the first one's parent is
		// the root folder itself.
		rootID = snapshot.Folders[0].ParentID
	} else if len(snapshot.Notes) > 0 {
		rootID = snapshot.Notes[0].ParentID
	}
	renderLevel(&b, byParent, notesByParent, rootID, 1)

	return &TreeResult{Snapshot: snapshot, Message: strings.TrimRight(b.String(), "\n")}, nil
}

func renderLevel(b *strings.Builder, folders map[string][]domain.Folder, notes map[string][]domain.Note, parentID string, depth int) {
	indent := strings.Repeat("  ", depth)

	children := folders[parentID]
	sort.Slice(children, func(i, j int) bool { return children[i].Title < children[j].Title })
	for _, folder := range children {
		fmt.Fprintf(b, "%s%s/\n", indent, folder.Title)
		renderLevel(b, folders, notes, folder.ID, depth+1)
	}

	leaves := notes[parentID]
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Title < leaves[j].Title })
	for _, note := range leaves {
		fmt.Fprintf(b, "%s%s\n", indent, note.Title)
	}
}
