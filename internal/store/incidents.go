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

const incidentColumns = `id, type, description, severity, status, occurred_at, registered_at, responsible, resolution`

// IncidentFilter selects which incidents a List call returns. Each field is
// skipped when empty or set to models.FilterAll. Status and severity are
// lower-cased before comparison (stored values are lower-case); type is
// matched exactly as given.
type IncidentFilter struct {
	Status   string
	Severity string
	Type     string
}

// IncidentUpdate carries the fields to change on an incident. Nil pointers
// leave the stored value untouched. There is no timestamp auto-refresh and
// registered_at is immutable.
type IncidentUpdate struct {
	Type        *string
	Description *string
	Severity    *string
	Status      *string
	Responsible *string
	Resolution  *string
}

func (u IncidentUpdate) empty() bool {
	return u.Type == nil && u.Description == nil && u.Severity == nil &&
		u.Status == nil && u.Responsible == nil && u.Resolution == nil
}

// CreateIncident inserts an incident and returns its generated id. A zero
// OccurredAt defaults to the current time; RegisteredAt is always set
// server-side regardless of input.
func (db *DB) CreateIncident(ctx context.Context, in models.Incident) (int64, error) {
	if in.Description == "" {
		return 0, &apperr.ValidationError{Field: "description", Reason: "is required"}
	}
	if in.Type == "" {
		in.Type = models.TypeIncident
	}
	if in.Severity == "" {
		in.Severity = models.SeverityMedium
	}
	if in.Status == "" {
		in.Status = models.StatusOpen
	}
	now := time.Now()
	if in.OccurredAt.IsZero() {
		in.OccurredAt = now
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO incidents (type, description, severity, status, occurred_at, registered_at, responsible, resolution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Type, in.Description, in.Severity, in.Status, in.OccurredAt, now,
		nullIfEmpty(in.Responsible), nullIfEmpty(in.Resolution))
	if err != nil {
		return 0, fmt.Errorf("store: insert incident: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: incident id: %w", err)
	}
	return id, nil
}

// ListIncidents returns incidents matching the filter, newest occurrence
// first.
func (db *DB) ListIncidents(ctx context.Context, f IncidentFilter) ([]models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE 1=1`
	args := []any{}

	if f.Status != "" && f.Status != models.FilterAll {
		query += ` AND status = ?`
		args = append(args, strings.ToLower(f.Status))
	}
	if f.Severity != "" && f.Severity != models.FilterAll {
		query += ` AND severity = ?`
		args = append(args, strings.ToLower(f.Severity))
	}
	if f.Type != "" && f.Type != models.FilterAll {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	query += ` ORDER BY occurred_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// GetIncident returns a single incident or apperr.ErrNotFound.
func (db *DB) GetIncident(ctx context.Context, id int64) (*models.Incident, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?`, id)
	in, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get incident: %w", err)
	}
	return in, nil
}

// UpdateIncident applies a partial update. An empty update is a no-op; a
// missing id affects zero rows and is not an error.
func (db *DB) UpdateIncident(ctx context.Context, id int64, u IncidentUpdate) error {
	if u.empty() {
		return nil
	}

	sets := []string{}
	args := []any{}
	if u.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *u.Type)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Severity != nil {
		sets = append(sets, "severity = ?")
		args = append(args, *u.Severity)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
	}
	if u.Responsible != nil {
		sets = append(sets, "responsible = ?")
		args = append(args, nullIfEmpty(*u.Responsible))
	}
	if u.Resolution != nil {
		sets = append(sets, "resolution = ?")
		args = append(args, nullIfEmpty(*u.Resolution))
	}
	args = append(args, id)

	if _, err := db.conn.ExecContext(ctx, `UPDATE incidents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("store: update incident: %w", err)
	}
	return nil
}

// DeleteIncident removes an incident unconditionally.
func (db *DB) DeleteIncident(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM incidents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete incident: %w", err)
	}
	return nil
}

// CountsByStatus groups the full incidents table by status.
func (db *DB) CountsByStatus(ctx context.Context) (map[string]int, error) {
	return db.groupCount(ctx, "status")
}

// CountsBySeverity groups the full incidents table by severity.
func (db *DB) CountsBySeverity(ctx context.Context) (map[string]int, error) {
	return db.groupCount(ctx, "severity")
}

func (db *DB) groupCount(ctx context.Context, column string) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM incidents GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("store: count by %s: %w", column, err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

// CriticalOpen returns critical incidents that are still open or in analysis,
// newest occurrence first.
func (db *DB) CriticalOpen(ctx context.Context) ([]models.Incident, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+incidentColumns+` FROM incidents
		WHERE severity = ? AND status IN (?, ?)
		ORDER BY occurred_at DESC
	`, models.SeverityCritical, models.StatusOpen, models.StatusInAnalysis)
	if err != nil {
		return nil, fmt.Errorf("store: critical open: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

func scanIncident(r rowScanner) (*models.Incident, error) {
	var in models.Incident
	var responsible, resolution sql.NullString
	if err := r.Scan(&in.ID, &in.Type, &in.Description, &in.Severity, &in.Status,
		&in.OccurredAt, &in.RegisteredAt, &responsible, &resolution); err != nil {
		return nil, err
	}
	in.Responsible = responsible.String
	in.Resolution = resolution.String
	return &in, nil
}

func scanIncidents(rows *sql.Rows) ([]models.Incident, error) {
	out := []models.Incident{}
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
