package api

import (
	"net/http"

	"github.com/veldt/opsdesk/internal/models"
	"github.com/veldt/opsdesk/internal/store"
)

// ListIncidents handles GET /incidents. Query parameters status, severity,
// and type each accept "All" (or absence) as the no-filter sentinel.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.IncidentFilter{
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
		Type:     q.Get("type"),
	}
	incidents, err := h.svc.ListIncidents(r.Context(), f)
	if err != nil {
		writeError(w, "list incidents", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incidents": incidents})
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	occurredAt, err := parseRFC3339(req.OccurredAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("occurred_at must be RFC 3339"))
		return
	}
	id, err := h.svc.CreateIncident(r.Context(), models.Incident{
		Type:        req.Type,
		Description: req.Description,
		Severity:    req.Severity,
		OccurredAt:  occurredAt,
		Responsible: req.Responsible,
		Resolution:  req.Resolution,
	})
	if err != nil {
		writeError(w, "create incident", err)
		return
	}
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// GetIncident handles GET /incidents/{id}.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	in, err := h.svc.GetIncident(r.Context(), id)
	if err != nil {
		writeError(w, "get incident", err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// UpdateIncident handles PATCH /incidents/{id}.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	var req UpdateIncidentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.svc.UpdateIncident(r.Context(), id, store.IncidentUpdate{
		Type:        req.Type,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      req.Status,
		Responsible: req.Responsible,
		Resolution:  req.Resolution,
	})
	if err != nil {
		writeError(w, "update incident", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteIncident handles DELETE /incidents/{id}.
func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.svc.DeleteIncident(r.Context(), id); err != nil {
		writeError(w, "delete incident", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IncidentCounts handles GET /incidents/counts.
func (h *Handler) IncidentCounts(w http.ResponseWriter, r *http.Request) {
	byStatus, err := h.svc.CountsByStatus(r.Context())
	if err != nil {
		writeError(w, "incident counts", err)
		return
	}
	bySeverity, err := h.svc.CountsBySeverity(r.Context())
	if err != nil {
		writeError(w, "incident counts", err)
		return
	}
	writeJSON(w, http.StatusOK, IncidentCountsResponse{ByStatus: byStatus, BySeverity: bySeverity})
}

// CriticalIncidents handles GET /incidents/critical.
func (h *Handler) CriticalIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.svc.CriticalOpen(r.Context())
	if err != nil {
		writeError(w, "critical incidents", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incidents": incidents})
}
