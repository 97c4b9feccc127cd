// Package models defines the domain types for opsdesk.
package models

import "time"

// FilterAll is the sentinel dropdown value meaning "apply no filter".
const FilterAll = "All"

// Note priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Incident types.
const (
	TypeIncident    = "incident"
	TypeProblem     = "problem"
	TypeObservation = "observation"
	TypeBug         = "bug"
	TypeImprovement = "improvement"
	TypeOther       = "other"
)

// Incident severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident statuses. Transitions are unconstrained: any value may be set via
// update, including closing directly from open.
const (
	StatusOpen       = "open"
	StatusInAnalysis = "in-analysis"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Note is a free-form tagged text record with priority and archive state.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	Priority   string    `json:"priority"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Incident is an issue/observation record with severity and a status lifecycle.
type Incident struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Severity     string    `json:"severity"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
	RegisteredAt time.Time `json:"registered_at"`
	Responsible  string    `json:"responsible,omitempty"`
	Resolution   string    `json:"resolution,omitempty"`
}

// ActionItem is a task embedded within a Minutes record. Items have no
// identity outside their containing record: edits rewrite the whole sequence.
type ActionItem struct {
	Description string `json:"description"`
	Responsible string `json:"responsible,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Completed   bool   `json:"completed"`
}

// Minutes is a meeting record containing an embedded list of action items.
// MeetingDate and NextMeeting are "2006-01-02" dates; StartTime and EndTime
// are "15:04" clock times.
type Minutes struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	MeetingDate  string       `json:"meeting_date"`
	StartTime    string       `json:"start_time,omitempty"`
	EndTime      string       `json:"end_time,omitempty"`
	Participants []string     `json:"participants"`
	Agenda       string       `json:"agenda,omitempty"`
	Discussion   string       `json:"discussion,omitempty"`
	Decisions    string       `json:"decisions,omitempty"`
	ActionItems  []ActionItem `json:"action_items"`
	NextMeeting  string       `json:"next_meeting,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// PendingAction is one incomplete action item joined with its minutes context.
type PendingAction struct {
	MinutesID    int64  `json:"minutes_id"`
	MinutesTitle string `json:"minutes_title"`
	MeetingDate  string `json:"meeting_date"`
	Description  string `json:"description"`
	Responsible  string `json:"responsible,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
}

// Stats holds the dashboard aggregate counts.
type Stats struct {
	ActiveNotes    int `json:"active_notes"`
	ArchivedNotes  int `json:"archived_notes"`
	OpenIncidents  int `json:"open_incidents"`
	TotalIncidents int `json:"total_incidents"`
	TotalMinutes   int `json:"total_minutes"`
}
