package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memorymap/internal/client/models"
)

// Entries lists the current user's journal entries.
func (a *App) Entries(ctx context.Context) error {
	list, err := a.entries.List(ctx)
	if err != nil {
		return a.sessionFailure(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No entries yet. Use 'addentry' to write one.")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(a.out, "- %s", e.Title)
		if e.Location != nil {
			fmt.Fprintf(a.out, " @ %s", e.Location)
		}
		fmt.Fprintf(a.out, " [%s]\n", e.ID)
		if e.Content != "" {
			fmt.Fprintf(a.out, "  %s\n", e.Content)
		}
	}
	return nil
}

// AddEntry prompts for a new entry and creates it. The location accepts a
// place name or "lat,lng".
func (a *App) AddEntry(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	location, err := getSimpleText(a.reader, "Location (place name or lat,lng; empty to skip)", a.out)
	if err != nil {
		return err
	}
	photo, err := getSimpleText(a.reader, "Photo URL (empty to skip)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	id, err := a.entries.Create(ctx, models.EntryDraft{
		Title:    title,
		Content:  content,
		Location: models.ParseLocation(location),
		PhotoURL: photo,
	})
	if err != nil {
		return a.sessionFailure(err)
	}
	fmt.Fprintln(a.out, "Entry created:", id)
	return nil
}
