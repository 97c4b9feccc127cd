package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/veldt/opsdesk/internal/apperr"
	"github.com/veldt/opsdesk/internal/models"
)

func noteFixture(title string) models.Note {
	return models.Note{
		Title:    title,
		Body:     "body of " + title,
		Category: "Ops",
		Tags:     []string{"alpha", "beta"},
		Priority: models.PriorityHigh,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.CreateNote(ctx, noteFixture("first"))
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if id == 0 {
		t.Fatal("CreateNote returned zero id")
	}

	n, err := db.GetNote(ctx, id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "first" || n.Category != "Ops" || n.Priority != models.PriorityHigh {
		t.Errorf("note = %+v, want fixture fields back", n)
	}
	if len(n.Tags) != 2 || n.Tags[0] != "alpha" || n.Tags[1] != "beta" {
		t.Errorf("tags = %v, want [alpha beta]", n.Tags)
	}
	if n.CreatedAt.IsZero() || !n.CreatedAt.Equal(n.ModifiedAt) {
		t.Errorf("timestamps = %v / %v, want equal and non-zero", n.CreatedAt, n.ModifiedAt)
	}
}

func TestCreateNoteDefaults(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.CreateNote(ctx, models.Note{Title: "bare"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	n, err := db.GetNote(ctx, id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Category != "General" {
		t.Errorf("category = %q, want General", n.Category)
	}
	if n.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", n.Priority)
	}
	if n.Tags == nil || len(n.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", n.Tags)
	}
}

func TestCreateNoteRequiresTitle(t *testing.T) {
	db := testDB(t)
	_, err := db.CreateNote(context.Background(), models.Note{Body: "no title"})
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestGetNoteNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetNote(context.Background(), 999)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNotesPartitionsByArchived(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	activeID, _ := db.CreateNote(ctx, noteFixture("active"))
	archivedID, _ := db.CreateNote(ctx, noteFixture("archived"))
	if err := db.ArchiveNote(ctx, archivedID, true); err != nil {
		t.Fatalf("ArchiveNote: %v", err)
	}

	active, err := db.ListNotes(ctx, NoteFilter{Archived: false})
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(active) != 1 || active[0].ID != activeID {
		t.Errorf("active = %+v, want only id %d", active, activeID)
	}

	archived, err := db.ListNotes(ctx, NoteFilter{Archived: true})
	if err != nil {
		t.Fatalf("ListNotes archived: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != archivedID {
		t.Errorf("archived = %+v, want only id %d", archived, archivedID)
	}
}

func TestListNotesCategoryFilter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, _ = db.CreateNote(ctx, models.Note{Title: "a", Category: "Ops"})
	_, _ = db.CreateNote(ctx, models.Note{Title: "b", Category: "Dev"})

	got, err := db.ListNotes(ctx, NoteFilter{Category: "Ops"})
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(got) != 1 || got[0].Category != "Ops" {
		t.Errorf("filtered = %+v, want just the Ops note", got)
	}

	// "All" and empty behave the same: no category constraint.
	all, err := db.ListNotes(ctx, NoteFilter{Category: models.FilterAll})
	if err != nil {
		t.Fatalf("ListNotes All: %v", err)
	}
	none, err := db.ListNotes(ctx, NoteFilter{})
	if err != nil {
		t.Fatalf("ListNotes empty: %v", err)
	}
	if len(all) != 2 || len(none) != 2 {
		t.Errorf("All = %d notes, empty = %d notes, want 2 and 2", len(all), len(none))
	}
}

func TestUpdateNotePartial(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, _ := db.CreateNote(ctx, noteFixture("orig"))
	before, _ := db.GetNote(ctx, id)

	time.Sleep(10 * time.Millisecond)
	err := db.UpdateNote(ctx, id, NoteUpdate{Title: strPtr("renamed")})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}

	after, _ := db.GetNote(ctx, id)
	if after.Title != "renamed" {
		t.Errorf("title = %q, want renamed", after.Title)
	}
	if after.Body != before.Body || after.Category != before.Category {
		t.Errorf("untouched fields changed: %+v", after)
	}
	if !after.ModifiedAt.After(before.ModifiedAt) {
		t.Errorf("modified_at not refreshed: %v -> %v", before.ModifiedAt, after.ModifiedAt)
	}
}

func TestUpdateNoteEmptyIsNoOp(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, _ := db.CreateNote(ctx, noteFixture("still"))
	before, _ := db.GetNote(ctx, id)

	time.Sleep(10 * time.Millisecond)
	if err := db.UpdateNote(ctx, id, NoteUpdate{}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}

	after, _ := db.GetNote(ctx, id)
	if !after.ModifiedAt.Equal(before.ModifiedAt) {
		t.Errorf("empty update changed modified_at: %v -> %v", before.ModifiedAt, after.ModifiedAt)
	}
}

func TestUpdateNoteTagsRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, _ := db.CreateNote(ctx, noteFixture("tagged"))
	empty := []string{}
	if err := db.UpdateNote(ctx, id, NoteUpdate{Tags: &empty}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	n, _ := db.GetNote(ctx, id)
	if n.Tags == nil || len(n.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", n.Tags)
	}
}

func TestUpdateNoteMissingIDSucceeds(t *testing.T) {
	db := testDB(t)
	if err := db.UpdateNote(context.Background(), 404, NoteUpdate{Title: strPtr("ghost")}); err != nil {
		t.Fatalf("UpdateNote on missing id: %v", err)
	}
}

func TestArchiveNoteKeepsModifiedAt(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, _ := db.CreateNote(ctx, noteFixture("park"))
	before, _ := db.GetNote(ctx, id)

	time.Sleep(10 * time.Millisecond)
	if err := db.ArchiveNote(ctx, id, true); err != nil {
		t.Fatalf("ArchiveNote: %v", err)
	}
	// Archiving twice is harmless.
	if err := db.ArchiveNote(ctx, id, true); err != nil {
		t.Fatalf("ArchiveNote again: %v", err)
	}

	after, _ := db.GetNote(ctx, id)
	if !after.Archived {
		t.Error("note not archived")
	}
	if !after.ModifiedAt.Equal(before.ModifiedAt) {
		t.Errorf("archive changed modified_at: %v -> %v", before.ModifiedAt, after.ModifiedAt)
	}

	if err := db.ArchiveNote(ctx, id, false); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	restored, _ := db.GetNote(ctx, id)
	if restored.Archived {
		t.Error("note still archived after restore")
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, _ := db.CreateNote(ctx, noteFixture("gone"))
	if err := db.DeleteNote(ctx, id); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := db.GetNote(ctx, id); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetNote after delete = %v, want ErrNotFound", err)
	}
	// Deleting an absent id is not an error.
	if err := db.DeleteNote(ctx, id); err != nil {
		t.Fatalf("DeleteNote absent id: %v", err)
	}
}

func TestSearchNotes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, _ = db.CreateNote(ctx, models.Note{Title: "database backlog", Body: "stuff"})
	_, _ = db.CreateNote(ctx, models.Note{Title: "weekly", Body: "review the database plan"})
	hiddenID, _ := db.CreateNote(ctx, models.Note{Title: "database old", Body: "stale"})
	_ = db.ArchiveNote(ctx, hiddenID, true)

	got, err := db.SearchNotes(ctx, "database")
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (archived excluded)", len(got))
	}
	for _, n := range got {
		if n.ID == hiddenID {
			t.Error("archived note surfaced in search")
		}
	}
}

func TestCategories(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, _ = db.CreateNote(ctx, models.Note{Title: "1", Category: "Zulu"})
	_, _ = db.CreateNote(ctx, models.Note{Title: "2", Category: "Alpha"})
	_, _ = db.CreateNote(ctx, models.Note{Title: "3", Category: "Alpha"})

	cats, err := db.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Alpha" || cats[1] != "Zulu" {
		t.Errorf("categories = %v, want [Alpha Zulu]", cats)
	}
}
