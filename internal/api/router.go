package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veldt/opsdesk/internal/auth"
	"github.com/veldt/opsdesk/internal/recordservice"
)

// NewRouter creates a chi router with all API routes mounted. authEnabled
// controls whether a live session is required; login/logout are always
// reachable. sseHandler, if non-nil, is mounted at GET /events inside the
// session group.
func NewRouter(svc *recordservice.Service, gate *auth.Gate, sessions *auth.Sessions, authEnabled bool, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, gate, sessions)

	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(authEnabled, sessions))

		// Notes.
		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Get("/notes/search", h.SearchNotes)
		r.Get("/notes/categories", h.Categories)
		r.Get("/notes/{id}", h.GetNote)
		r.Patch("/notes/{id}", h.UpdateNote)
		r.Delete("/notes/{id}", h.DeleteNote)
		r.Post("/notes/{id}/archive", h.ArchiveNote)

		// Incidents.
		r.Get("/incidents", h.ListIncidents)
		r.Post("/incidents", h.CreateIncident)
		r.Get("/incidents/counts", h.IncidentCounts)
		r.Get("/incidents/critical", h.CriticalIncidents)
		r.Get("/incidents/{id}", h.GetIncident)
		r.Patch("/incidents/{id}", h.UpdateIncident)
		r.Delete("/incidents/{id}", h.DeleteIncident)

		// Minutes and action items.
		r.Get("/minutes", h.ListMinutes)
		r.Post("/minutes", h.CreateMinutes)
		r.Get("/minutes/range", h.MinutesByRange)
		r.Get("/minutes/{id}", h.GetMinutes)
		r.Patch("/minutes/{id}", h.UpdateMinutes)
		r.Delete("/minutes/{id}", h.DeleteMinutes)
		r.Get("/actions/pending", h.PendingActions)

		// Aggregates.
		r.Get("/stats", h.GetStats)

		// SSE endpoint (protected by the same session middleware).
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
