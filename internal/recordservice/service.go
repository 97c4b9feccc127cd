// Package recordservice coordinates validation, the record store, and change
// notifications for the presentation layers.
package recordservice

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/veldt/opsdesk/internal/apperr"
	"github.com/veldt/opsdesk/internal/models"
	"github.com/veldt/opsdesk/internal/schedule"
	"github.com/veldt/opsdesk/internal/store"
)

// EventPublisher receives a notification after every successful mutation.
// kind is one of "created", "updated", "deleted", "archived".
type EventPublisher interface {
	PublishRecordEvent(entity, kind string, id int64)
}

// Service is the application-facing record API.
type Service struct {
	db  store.RecordStore
	pub EventPublisher
}

// NewService creates a record service. pub may be nil when no live updates
// are wanted (tests, MCP mode).
func NewService(db store.RecordStore, pub EventPublisher) *Service {
	return &Service{db: db, pub: pub}
}

func (s *Service) publish(entity, kind string, id int64) {
	if s.pub != nil {
		s.pub.PublishRecordEvent(entity, kind, id)
	}
}

// invalid translates an ozzo field error into the apperr contract.
func invalid(field string, err error) error {
	if err == nil {
		return nil
	}
	return &apperr.ValidationError{Field: field, Reason: err.Error()}
}

// ---- Notes ----

// CreateNote validates and stores a new note, returning its id.
func (s *Service) CreateNote(ctx context.Context, n models.Note) (int64, error) {
	if err := validation.Validate(n.Priority,
		validation.In("", models.PriorityLow, models.PriorityMedium, models.PriorityHigh)); err != nil {
		return 0, invalid("priority", err)
	}
	id, err := s.db.CreateNote(ctx, n)
	if err != nil {
		return 0, err
	}
	s.publish("note", "created", id)
	return id, nil
}

// ListNotes returns notes matching the filter.
func (s *Service) ListNotes(ctx context.Context, f store.NoteFilter) ([]models.Note, error) {
	return s.db.ListNotes(ctx, f)
}

// GetNote returns one note or apperr.ErrNotFound.
func (s *Service) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	return s.db.GetNote(ctx, id)
}

// UpdateNote applies a partial update.
func (s *Service) UpdateNote(ctx context.Context, id int64, u store.NoteUpdate) error {
	if u.Priority != nil {
		if err := validation.Validate(*u.Priority,
			validation.In(models.PriorityLow, models.PriorityMedium, models.PriorityHigh)); err != nil {
			return invalid("priority", err)
		}
	}
	if err := s.db.UpdateNote(ctx, id, u); err != nil {
		return err
	}
	s.publish("note", "updated", id)
	return nil
}

// DeleteNote removes a note unconditionally.
func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	if err := s.db.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.publish("note", "deleted", id)
	return nil
}

// ArchiveNote sets the archive flag.
func (s *Service) ArchiveNote(ctx context.Context, id int64, archived bool) error {
	if err := s.db.ArchiveNote(ctx, id, archived); err != nil {
		return err
	}
	s.publish("note", "archived", id)
	return nil
}

// SearchNotes returns non-archived notes matching term in title or body.
func (s *Service) SearchNotes(ctx context.Context, term string) ([]models.Note, error) {
	return s.db.SearchNotes(ctx, term)
}

// Categories returns the distinct note categories in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.db.Categories(ctx)
}

// ---- Incidents ----

// CreateIncident validates and stores a new incident, returning its id.
func (s *Service) CreateIncident(ctx context.Context, in models.Incident) (int64, error) {
	if err := validation.Validate(in.Type,
		validation.In("", models.TypeIncident, models.TypeProblem, models.TypeObservation,
			models.TypeBug, models.TypeImprovement, models.TypeOther)); err != nil {
		return 0, invalid("type", err)
	}
	if err := validation.Validate(in.Severity,
		validation.In("", models.SeverityLow, models.SeverityMedium, models.SeverityHigh,
			models.SeverityCritical)); err != nil {
		return 0, invalid("severity", err)
	}
	id, err := s.db.CreateIncident(ctx, in)
	if err != nil {
		return 0, err
	}
	s.publish("incident", "created", id)
	return id, nil
}

// ListIncidents returns incidents matching the filter.
func (s *Service) ListIncidents(ctx context.Context, f store.IncidentFilter) ([]models.Incident, error) {
	return s.db.ListIncidents(ctx, f)
}

// GetIncident returns one incident or apperr.ErrNotFound.
func (s *Service) GetIncident(ctx context.Context, id int64) (*models.Incident, error) {
	return s.db.GetIncident(ctx, id)
}

// UpdateIncident applies a partial update. Status transitions are
// deliberately unconstrained: any status may be set from any other.
func (s *Service) UpdateIncident(ctx context.Context, id int64, u store.IncidentUpdate) error {
	if u.Severity != nil {
		if err := validation.Validate(*u.Severity,
			validation.In(models.SeverityLow, models.SeverityMedium, models.SeverityHigh,
				models.SeverityCritical)); err != nil {
			return invalid("severity", err)
		}
	}
	if u.Status != nil {
		if err := validation.Validate(*u.Status,
			validation.In(models.StatusOpen, models.StatusInAnalysis, models.StatusResolved,
				models.StatusClosed)); err != nil {
			return invalid("status", err)
		}
	}
	if err := s.db.UpdateIncident(ctx, id, u); err != nil {
		return err
	}
	s.publish("incident", "updated", id)
	return nil
}

// DeleteIncident removes an incident unconditionally.
func (s *Service) DeleteIncident(ctx context.Context, id int64) error {
	if err := s.db.DeleteIncident(ctx, id); err != nil {
		return err
	}
	s.publish("incident", "deleted", id)
	return nil
}

// CountsByStatus groups all incidents by status.
func (s *Service) CountsByStatus(ctx context.Context) (map[string]int, error) {
	return s.db.CountsByStatus(ctx)
}

// CountsBySeverity groups all incidents by severity.
func (s *Service) CountsBySeverity(ctx context.Context) (map[string]int, error) {
	return s.db.CountsBySeverity(ctx)
}

// CriticalOpen returns critical incidents still open or in analysis.
func (s *Service) CriticalOpen(ctx context.Context) ([]models.Incident, error) {
	return s.db.CriticalOpen(ctx)
}

// ---- Minutes ----

// CreateMinutes validates and stores a new minutes record, returning its id.
func (s *Service) CreateMinutes(ctx context.Context, m models.Minutes) (int64, error) {
	if m.MeetingDate != "" {
		if err := validation.Validate(m.MeetingDate, validation.Date(schedule.DateLayout)); err != nil {
			return 0, invalid("meeting_date", err)
		}
	}
	id, err := s.db.CreateMinutes(ctx, m)
	if err != nil {
		return 0, err
	}
	s.publish("minutes", "created", id)
	return id, nil
}

// ListMinutes returns minutes by meeting date descending, truncated to limit
// when limit > 0.
func (s *Service) ListMinutes(ctx context.Context, limit int) ([]models.Minutes, error) {
	return s.db.ListMinutes(ctx, limit)
}

// GetMinutes returns one minutes record or apperr.ErrNotFound.
func (s *Service) GetMinutes(ctx context.Context, id int64) (*models.Minutes, error) {
	return s.db.GetMinutes(ctx, id)
}

// MinutesByDateRange returns minutes within [start, end] inclusive.
func (s *Service) MinutesByDateRange(ctx context.Context, start, end string) ([]models.Minutes, error) {
	return s.db.MinutesByDateRange(ctx, start, end)
}

// UpdateMinutes applies a partial update. A supplied ActionItems sequence
// replaces the stored one wholesale.
func (s *Service) UpdateMinutes(ctx context.Context, id int64, u store.MinutesUpdate) error {
	if u.MeetingDate != nil {
		if err := validation.Validate(*u.MeetingDate, validation.Date(schedule.DateLayout)); err != nil {
			return invalid("meeting_date", err)
		}
	}
	if err := s.db.UpdateMinutes(ctx, id, u); err != nil {
		return err
	}
	s.publish("minutes", "updated", id)
	return nil
}

// DeleteMinutes removes a minutes record and its embedded action items.
func (s *Service) DeleteMinutes(ctx context.Context, id int64) error {
	if err := s.db.DeleteMinutes(ctx, id); err != nil {
		return err
	}
	s.publish("minutes", "deleted", id)
	return nil
}

// PendingActionItems returns every incomplete action item across all minutes.
func (s *Service) PendingActionItems(ctx context.Context) ([]models.PendingAction, error) {
	return s.db.PendingActionItems(ctx)
}

// ---- Aggregates ----

// Stats returns the dashboard counts.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	return s.db.Stats(ctx)
}
