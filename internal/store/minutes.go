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

const minutesColumns = `id, title, meeting_date, start_time, end_time, participants, agenda, discussion, decisions, action_items, next_meeting, created_at`

// MinutesUpdate carries the fields to change on a minutes record. Nil
// pointers leave the stored value untouched. ActionItems, when supplied,
// replaces the stored sequence wholesale; there is no per-item merge.
type MinutesUpdate struct {
	Title        *string
	MeetingDate  *string
	StartTime    *string
	EndTime      *string
	Participants *[]string
	Agenda       *string
	Discussion   *string
	Decisions    *string
	ActionItems  *[]models.ActionItem
	NextMeeting  *string
}

func (u MinutesUpdate) empty() bool {
	return u.Title == nil && u.MeetingDate == nil && u.StartTime == nil &&
		u.EndTime == nil && u.Participants == nil && u.Agenda == nil &&
		u.Discussion == nil && u.Decisions == nil && u.ActionItems == nil &&
		u.NextMeeting == nil
}

// CreateMinutes inserts a minutes record and returns its generated id.
func (db *DB) CreateMinutes(ctx context.Context, m models.Minutes) (int64, error) {
	if m.Title == "" {
		return 0, &apperr.ValidationError{Field: "title", Reason: "is required"}
	}
	if m.MeetingDate == "" {
		return 0, &apperr.ValidationError{Field: "meeting_date", Reason: "is required"}
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO minutes (title, meeting_date, start_time, end_time, participants,
			agenda, discussion, decisions, action_items, next_meeting, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Title, m.MeetingDate, nullIfEmpty(m.StartTime), nullIfEmpty(m.EndTime),
		encodeStrings(m.Participants), nullIfEmpty(m.Agenda), nullIfEmpty(m.Discussion),
		nullIfEmpty(m.Decisions), encodeActions(m.ActionItems), nullIfEmpty(m.NextMeeting),
		time.Now())
	if err != nil {
		return 0, fmt.Errorf("store: insert minutes: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: minutes id: %w", err)
	}
	return id, nil
}

// ListMinutes returns minutes ordered by meeting date descending, truncated
// to limit when limit > 0.
func (db *DB) ListMinutes(ctx context.Context, limit int) ([]models.Minutes, error) {
	query := `SELECT ` + minutesColumns + ` FROM minutes ORDER BY meeting_date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list minutes: %w", err)
	}
	defer rows.Close()
	return scanMinutesRows(rows)
}

// GetMinutes returns a single minutes record or apperr.ErrNotFound.
func (db *DB) GetMinutes(ctx context.Context, id int64) (*models.Minutes, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+minutesColumns+` FROM minutes WHERE id = ?`, id)
	m, err := scanMinutes(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get minutes: %w", err)
	}
	return m, nil
}

// MinutesByDateRange returns minutes whose meeting date falls within
// [start, end] inclusive, newest first. Dates are "2006-01-02" strings.
func (db *DB) MinutesByDateRange(ctx context.Context, start, end string) ([]models.Minutes, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+minutesColumns+` FROM minutes
		WHERE meeting_date BETWEEN ? AND ?
		ORDER BY meeting_date DESC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("store: minutes by range: %w", err)
	}
	defer rows.Close()
	return scanMinutesRows(rows)
}

// UpdateMinutes applies a partial update. An empty update is a no-op; a
// missing id affects zero rows and is not an error.
func (db *DB) UpdateMinutes(ctx context.Context, id int64, u MinutesUpdate) error {
	if u.empty() {
		return nil
	}

	sets := []string{}
	args := []any{}
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.MeetingDate != nil {
		sets = append(sets, "meeting_date = ?")
		args = append(args, *u.MeetingDate)
	}
	if u.StartTime != nil {
		sets = append(sets, "start_time = ?")
		args = append(args, nullIfEmpty(*u.StartTime))
	}
	if u.EndTime != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, nullIfEmpty(*u.EndTime))
	}
	if u.Participants != nil {
		sets = append(sets, "participants = ?")
		args = append(args, encodeStrings(*u.Participants))
	}
	if u.Agenda != nil {
		sets = append(sets, "agenda = ?")
		args = append(args, nullIfEmpty(*u.Agenda))
	}
	if u.Discussion != nil {
		sets = append(sets, "discussion = ?")
		args = append(args, nullIfEmpty(*u.Discussion))
	}
	if u.Decisions != nil {
		sets = append(sets, "decisions = ?")
		args = append(args, nullIfEmpty(*u.Decisions))
	}
	if u.ActionItems != nil {
		sets = append(sets, "action_items = ?")
		args = append(args, encodeActions(*u.ActionItems))
	}
	if u.NextMeeting != nil {
		sets = append(sets, "next_meeting = ?")
		args = append(args, nullIfEmpty(*u.NextMeeting))
	}
	args = append(args, id)

	if _, err := db.conn.ExecContext(ctx, `UPDATE minutes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("store: update minutes: %w", err)
	}
	return nil
}

// DeleteMinutes removes a minutes record unconditionally, taking its embedded
// action items with it.
func (db *DB) DeleteMinutes(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM minutes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete minutes: %w", err)
	}
	return nil
}

// PendingActionItems scans every minutes record and emits one entry per
// action item whose completed flag is false, in minutes-id order and then
// item order within each record.
func (db *DB) PendingActionItems(ctx context.Context) ([]models.PendingAction, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, title, meeting_date, action_items FROM minutes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: pending actions: %w", err)
	}
	defer rows.Close()

	out := []models.PendingAction{}
	for rows.Next() {
		var id int64
		var title, meetingDate, raw string
		if err := rows.Scan(&id, &title, &meetingDate, &raw); err != nil {
			return nil, err
		}
		items, err := decodeActions(raw)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.Completed {
				continue
			}
			out = append(out, models.PendingAction{
				MinutesID:    id,
				MinutesTitle: title,
				MeetingDate:  meetingDate,
				Description:  it.Description,
				Responsible:  it.Responsible,
				DueDate:      it.DueDate,
			})
		}
	}
	return out, rows.Err()
}

func scanMinutes(r rowScanner) (*models.Minutes, error) {
	var m models.Minutes
	var startTime, endTime, agenda, discussion, decisions, nextMeeting sql.NullString
	var participants, actions string
	if err := r.Scan(&m.ID, &m.Title, &m.MeetingDate, &startTime, &endTime,
		&participants, &agenda, &discussion, &decisions, &actions, &nextMeeting,
		&m.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if m.Participants, err = decodeStrings(participants); err != nil {
		return nil, err
	}
	if m.ActionItems, err = decodeActions(actions); err != nil {
		return nil, err
	}
	m.StartTime = startTime.String
	m.EndTime = endTime.String
	m.Agenda = agenda.String
	m.Discussion = discussion.String
	m.Decisions = decisions.String
	m.NextMeeting = nextMeeting.String
	return &m, nil
}

func scanMinutesRows(rows *sql.Rows) ([]models.Minutes, error) {
	out := []models.Minutes{}
	for rows.Next() {
		m, err := scanMinutes(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
