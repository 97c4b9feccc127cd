package store

import (
	"context"
	"fmt"

	"github.com/veldt/opsdesk/internal/models"
)

// Stats returns the dashboard aggregate counts. An incident counts as open
// while its status is anything other than closed.
func (db *DB) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM notes WHERE archived = 0`, &s.ActiveNotes},
		{`SELECT COUNT(*) FROM notes WHERE archived = 1`, &s.ArchivedNotes},
		{`SELECT COUNT(*) FROM incidents WHERE status != 'closed'`, &s.OpenIncidents},
		{`SELECT COUNT(*) FROM incidents`, &s.TotalIncidents},
		{`SELECT COUNT(*) FROM minutes`, &s.TotalMinutes},
	}
	for _, c := range counts {
		if err := db.conn.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return models.Stats{}, fmt.Errorf("store: stats: %w", err)
		}
	}
	return s, nil
}
