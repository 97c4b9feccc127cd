package store

import (
	"encoding/json"
	"fmt"

	"github.com/veldt/opsdesk/internal/models"
)

// The list-valued columns (note tags, minutes participants and action items)
// hold JSON arrays in TEXT columns. Absent, NULL, or empty source data decodes
// to an empty non-nil slice so lists always round-trip as the same ordered
// sequence. Malformed JSON is data corruption and fails the read.

func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("store: decode string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeActions(v []models.ActionItem) string {
	if v == nil {
		v = []models.ActionItem{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeActions(s string) ([]models.ActionItem, error) {
	if s == "" {
		return []models.ActionItem{}, nil
	}
	var out []models.ActionItem
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("store: decode action items: %w", err)
	}
	if out == nil {
		out = []models.ActionItem{}
	}
	return out, nil
}
