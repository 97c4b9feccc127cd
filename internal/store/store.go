// Package store provides the SQLite-backed record access layer for notes,
// incidents, and meeting minutes.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veldt/opsdesk/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	body        TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT 'General',
	tags        TEXT NOT NULL DEFAULT '[]',
	priority    TEXT NOT NULL DEFAULT 'medium',
	archived    INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS incidents (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	type          TEXT NOT NULL,
	description   TEXT NOT NULL,
	severity      TEXT NOT NULL DEFAULT 'medium',
	status        TEXT NOT NULL DEFAULT 'open',
	occurred_at   DATETIME NOT NULL,
	registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	responsible   TEXT,
	resolution    TEXT,
	attachments   TEXT
);

CREATE TABLE IF NOT EXISTS minutes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	meeting_date TEXT NOT NULL,
	start_time   TEXT,
	end_time     TEXT,
	participants TEXT NOT NULL DEFAULT '[]',
	agenda       TEXT,
	discussion   TEXT,
	decisions    TEXT,
	action_items TEXT NOT NULL DEFAULT '[]',
	next_meeting TEXT,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tags (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT UNIQUE NOT NULL,
	color TEXT NOT NULL DEFAULT '#3498db',
	kind  TEXT NOT NULL DEFAULT 'note'
);
`

// DB wraps a sql.DB with record-store operations.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the SQLite database and applies the schema.
// The tags table is created for forward compatibility and is not read or
// written by any operation.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn, path: dsn}, nil
}

// Path returns the database file path the store was opened with.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// PingContext verifies the database connection is still alive.
func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// RecordStore defines the record access operations. Consumers should depend
// on this interface rather than the concrete *DB type to facilitate testing
// with mocks.
type RecordStore interface {
	// Notes.
	CreateNote(ctx context.Context, n models.Note) (int64, error)
	ListNotes(ctx context.Context, f NoteFilter) ([]models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	UpdateNote(ctx context.Context, id int64, u NoteUpdate) error
	DeleteNote(ctx context.Context, id int64) error
	ArchiveNote(ctx context.Context, id int64, archived bool) error
	SearchNotes(ctx context.Context, term string) ([]models.Note, error)
	Categories(ctx context.Context) ([]string, error)

	// Incidents.
	CreateIncident(ctx context.Context, in models.Incident) (int64, error)
	ListIncidents(ctx context.Context, f IncidentFilter) ([]models.Incident, error)
	GetIncident(ctx context.Context, id int64) (*models.Incident, error)
	UpdateIncident(ctx context.Context, id int64, u IncidentUpdate) error
	DeleteIncident(ctx context.Context, id int64) error
	CountsByStatus(ctx context.Context) (map[string]int, error)
	CountsBySeverity(ctx context.Context) (map[string]int, error)
	CriticalOpen(ctx context.Context) ([]models.Incident, error)

	// Minutes.
	CreateMinutes(ctx context.Context, m models.Minutes) (int64, error)
	ListMinutes(ctx context.Context, limit int) ([]models.Minutes, error)
	GetMinutes(ctx context.Context, id int64) (*models.Minutes, error)
	MinutesByDateRange(ctx context.Context, start, end string) ([]models.Minutes, error)
	UpdateMinutes(ctx context.Context, id int64, u MinutesUpdate) error
	DeleteMinutes(ctx context.Context, id int64) error
	PendingActionItems(ctx context.Context) ([]models.PendingAction, error)

	// Aggregates.
	Stats(ctx context.Context) (models.Stats, error)

	Close() error
}

// Verify *DB satisfies RecordStore at compile time.
var _ RecordStore = (*DB)(nil)
