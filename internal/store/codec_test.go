package store

import (
	"testing"

	"github.com/veldt/opsdesk/internal/models"
)

func TestDecodeStringsEdgeCases(t *testing.T) {
	for _, raw := range []string{"", "[]", "null"} {
		got, err := decodeStrings(raw)
		if err != nil {
			t.Fatalf("decodeStrings(%q): %v", raw, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("decodeStrings(%q) = %#v, want empty non-nil slice", raw, got)
		}
	}

	if _, err := decodeStrings("{broken"); err == nil {
		t.Error("malformed payload did not error")
	}
}

func TestActionsRoundTrip(t *testing.T) {
	items := []models.ActionItem{
		{Description: "a", Responsible: "x", DueDate: "2026-09-01"},
		{Description: "b", Completed: true},
	}
	got, err := decodeActions(encodeActions(items))
	if err != nil {
		t.Fatalf("decodeActions: %v", err)
	}
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Errorf("round trip = %+v, want %+v", got, items)
	}

	empty, err := decodeActions("")
	if err != nil {
		t.Fatalf("decodeActions empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("decodeActions(\"\") = %#v, want empty non-nil slice", empty)
	}
}
