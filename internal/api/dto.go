package api

import "github.com/veldt/opsdesk/internal/models"

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued session token (also set as a cookie).
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Priority string   `json:"priority"`
}

// UpdateNoteRequest is the request body for a partial note update. Absent
// fields are left unchanged.
type UpdateNoteRequest struct {
	Title    *string   `json:"title"`
	Body     *string   `json:"body"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
	Priority *string   `json:"priority"`
}

// ArchiveNoteRequest sets a note's archive flag.
type ArchiveNoteRequest struct {
	Archived bool `json:"archived"`
}

// CreateIncidentRequest is the request body for creating an incident.
// OccurredAt is RFC 3339 and defaults to the current time when omitted.
type CreateIncidentRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	OccurredAt  string `json:"occurred_at"`
	Responsible string `json:"responsible"`
	Resolution  string `json:"resolution"`
}

// UpdateIncidentRequest is the request body for a partial incident update.
type UpdateIncidentRequest struct {
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
	Responsible *string `json:"responsible"`
	Resolution  *string `json:"resolution"`
}

// CreateMinutesRequest is the request body for creating a minutes record.
type CreateMinutesRequest struct {
	Title        string              `json:"title"`
	MeetingDate  string              `json:"meeting_date"`
	StartTime    string              `json:"start_time"`
	EndTime      string              `json:"end_time"`
	Participants []string            `json:"participants"`
	Agenda       string              `json:"agenda"`
	Discussion   string              `json:"discussion"`
	Decisions    string              `json:"decisions"`
	ActionItems  []models.ActionItem `json:"action_items"`
	NextMeeting  string              `json:"next_meeting"`
}

// UpdateMinutesRequest is the request body for a partial minutes update.
// ActionItems, when present, replaces the stored sequence wholesale.
type UpdateMinutesRequest struct {
	Title        *string              `json:"title"`
	MeetingDate  *string              `json:"meeting_date"`
	StartTime    *string              `json:"start_time"`
	EndTime      *string              `json:"end_time"`
	Participants *[]string            `json:"participants"`
	Agenda       *string              `json:"agenda"`
	Discussion   *string              `json:"discussion"`
	Decisions    *string              `json:"decisions"`
	ActionItems  *[]models.ActionItem `json:"action_items"`
	NextMeeting  *string              `json:"next_meeting"`
}

// IDResponse is returned by create operations.
type IDResponse struct {
	ID int64 `json:"id"`
}

// IncidentCountsResponse carries the grouped incident aggregations.
type IncidentCountsResponse struct {
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}
