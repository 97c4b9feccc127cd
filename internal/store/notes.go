package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veldt/opsdesk/internal/apperr"
	"github.com/veldt/opsdesk/internal/models"
)

const noteColumns = `id, title, body, category, tags, priority, archived, created_at, modified_at`

// NoteFilter selects which notes a List call returns. Category is skipped
// when empty or set to models.FilterAll.
type NoteFilter struct {
	Archived bool
	Category string
}

// NoteUpdate carries the fields to change on a note. Nil pointers leave the
// stored value untouched.
type NoteUpdate struct {
	Title    *string
	Body     *string
	Category *string
	Tags     *[]string
	Priority *string
}

func (u NoteUpdate) empty() bool {
	return u.Title == nil && u.Body == nil && u.Category == nil && u.Tags == nil && u.Priority == nil
}

// CreateNote inserts a note and returns its generated id. Zero-valued
// category and priority fall back to their defaults; created_at and
// modified_at are set to the current time.
func (db *DB) CreateNote(ctx context.Context, n models.Note) (int64, error) {
	if n.Title == "" {
		return 0, &apperr.ValidationError{Field: "title", Reason: "is required"}
	}
	if n.Category == "" {
		n.Category = "General"
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	now := time.Now()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (title, body, category, tags, priority, archived, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.Title, n.Body, n.Category, encodeStrings(n.Tags), n.Priority, n.Archived, now, now)
	if err != nil {
		return 0, fmt.Errorf("store: insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: note id: %w", err)
	}
	return id, nil
}

// ListNotes returns notes matching the filter, newest modification first.
func (db *DB) ListNotes(ctx context.Context, f NoteFilter) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE archived = ?`
	args := []any{f.Archived}

	if f.Category != "" && f.Category != models.FilterAll {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY modified_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// GetNote returns a single note or apperr.ErrNotFound.
func (db *DB) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// UpdateNote applies a partial update. Supplying any field refreshes
// modified_at; an empty update is a no-op. A missing id affects zero rows and
// is not an error.
func (db *DB) UpdateNote(ctx context.Context, id int64, u NoteUpdate) error {
	if u.empty() {
		return nil
	}

	sets := []string{}
	args := []any{}
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *u.Body)
	}
	if u.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *u.Category)
	}
	if u.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, encodeStrings(*u.Tags))
	}
	if u.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *u.Priority)
	}
	sets = append(sets, "modified_at = ?")
	args = append(args, time.Now(), id)

	if _, err := db.conn.ExecContext(ctx, `UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	return nil
}

// DeleteNote removes a note unconditionally.
func (db *DB) DeleteNote(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return nil
}

// ArchiveNote sets the archived flag without touching modified_at.
func (db *DB) ArchiveNote(ctx context.Context, id int64, archived bool) error {
	if _, err := db.conn.ExecContext(ctx, `UPDATE notes SET archived = ? WHERE id = ?`, archived, id); err != nil {
		return fmt.Errorf("store: archive note: %w", err)
	}
	return nil
}

// SearchNotes returns non-archived notes whose title or body contains term,
// newest modification first.
func (db *DB) SearchNotes(ctx context.Context, term string) ([]models.Note, error) {
	like := "%" + term + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE (title LIKE ? OR body LIKE ?) AND archived = 0
		ORDER BY modified_at DESC
	`, like, like)
	if err != nil {
		return nil, fmt.Errorf("store: search notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// Categories returns the distinct category values in use, alphabetically.
func (db *DB) Categories(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT category FROM notes ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("store: categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*models.Note, error) {
	var n models.Note
	var tags string
	if err := r.Scan(&n.ID, &n.Title, &n.Body, &n.Category, &tags, &n.Priority, &n.Archived, &n.CreatedAt, &n.ModifiedAt); err != nil {
		return nil, err
	}
	decoded, err := decodeStrings(tags)
	if err != nil {
		return nil, err
	}
	n.Tags = decoded
	return &n, nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}
