package api

import (
	"net/http"
	"strconv"

	"github.com/veldt/opsdesk/internal/models"
	"github.com/veldt/opsdesk/internal/store"
)

// ListMinutes handles GET /minutes. The optional limit query parameter
// truncates the result.
func (h *Handler) ListMinutes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	minutes, err := h.svc.ListMinutes(r.Context(), limit)
	if err != nil {
		writeError(w, "list minutes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"minutes": minutes})
}

// CreateMinutes handles POST /minutes.
func (h *Handler) CreateMinutes(w http.ResponseWriter, r *http.Request) {
	var req CreateMinutesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.svc.CreateMinutes(r.Context(), models.Minutes{
		Title:        req.Title,
		MeetingDate:  req.MeetingDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
		Agenda:       req.Agenda,
		Discussion:   req.Discussion,
		Decisions:    req.Decisions,
		ActionItems:  req.ActionItems,
		NextMeeting:  req.NextMeeting,
	})
	if err != nil {
		writeError(w, "create minutes", err)
		return
	}
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// GetMinutes handles GET /minutes/{id}.
func (h *Handler) GetMinutes(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	m, err := h.svc.GetMinutes(r.Context(), id)
	if err != nil {
		writeError(w, "get minutes", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// MinutesByRange handles GET /minutes/range?start=YYYY-MM-DD&end=YYYY-MM-DD
// with inclusive bounds.
func (h *Handler) MinutesByRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("start and end are required"))
		return
	}
	minutes, err := h.svc.MinutesByDateRange(r.Context(), start, end)
	if err != nil {
		writeError(w, "minutes by range", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"minutes": minutes})
}

// UpdateMinutes handles PATCH /minutes/{id}. A supplied action_items array
// replaces the stored sequence wholesale.
func (h *Handler) UpdateMinutes(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	var req UpdateMinutesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.svc.UpdateMinutes(r.Context(), id, store.MinutesUpdate{
		Title:        req.Title,
		MeetingDate:  req.MeetingDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
		Agenda:       req.Agenda,
		Discussion:   req.Discussion,
		Decisions:    req.Decisions,
		ActionItems:  req.ActionItems,
		NextMeeting:  req.NextMeeting,
	})
	if err != nil {
		writeError(w, "update minutes", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMinutes handles DELETE /minutes/{id}.
func (h *Handler) DeleteMinutes(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.svc.DeleteMinutes(r.Context(), id); err != nil {
		writeError(w, "delete minutes", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PendingActions handles GET /actions/pending.
func (h *Handler) PendingActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.svc.PendingActionItems(r.Context())
	if err != nil {
		writeError(w, "pending actions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

// GetStats handles GET /stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
