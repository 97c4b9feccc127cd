package store

import (
	"context"
	"testing"

	"github.com/veldt/opsdesk/internal/models"
)

func TestStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	empty, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats on empty db: %v", err)
	}
	if empty != (models.Stats{}) {
		t.Errorf("empty stats = %+v, want all zeros", empty)
	}

	_, _ = db.CreateNote(ctx, models.Note{Title: "a"})
	_, _ = db.CreateNote(ctx, models.Note{Title: "b"})
	archivedID, _ := db.CreateNote(ctx, models.Note{Title: "c"})
	_ = db.ArchiveNote(ctx, archivedID, true)

	_, _ = db.CreateIncident(ctx, models.Incident{Description: "open one"})
	closedID, _ := db.CreateIncident(ctx, models.Incident{Description: "closed one"})
	_ = db.UpdateIncident(ctx, closedID, IncidentUpdate{Status: strPtr(models.StatusClosed)})
	resolvedID, _ := db.CreateIncident(ctx, models.Incident{Description: "resolved one"})
	_ = db.UpdateIncident(ctx, resolvedID, IncidentUpdate{Status: strPtr(models.StatusResolved)})

	_, _ = db.CreateMinutes(ctx, models.Minutes{Title: "m", MeetingDate: "2026-08-28"})

	got, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// Resolved still counts as open; only closed is terminal.
	want := models.Stats{
		ActiveNotes:    2,
		ArchivedNotes:  1,
		OpenIncidents:  2,
		TotalIncidents: 3,
		TotalMinutes:   1,
	}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
