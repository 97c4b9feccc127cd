package api

import (
	"net/http"

	"github.com/veldt/opsdesk/internal/models"
	"github.com/veldt/opsdesk/internal/store"
)

// ListNotes handles GET /notes. Query parameters: archived (bool, default
// false) and category ("All" or absent means no filter).
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.NoteFilter{
		Archived: q.Get("archived") == "true",
		Category: q.Get("category"),
	}
	notes, err := h.svc.ListNotes(r.Context(), f)
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.svc.CreateNote(r.Context(), models.Note{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Tags:     req.Tags,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /notes/{id}. Only supplied fields are written.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	var req UpdateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.svc.UpdateNote(r.Context(), id, store.NoteUpdate{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Tags:     req.Tags,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNote handles DELETE /notes/{id}. Deleting an absent id succeeds.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveNote handles POST /notes/{id}/archive.
func (h *Handler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	var req ArchiveNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ArchiveNote(r.Context(), id, req.Archived); err != nil {
		writeError(w, "archive note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchNotes handles GET /notes/search?q=term.
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	notes, err := h.svc.SearchNotes(r.Context(), term)
	if err != nil {
		writeError(w, "search notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// Categories handles GET /notes/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, "categories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}
