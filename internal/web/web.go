// Package web serves the server-rendered dashboard and login pages.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veldt/opsdesk/internal/auth"
	"github.com/veldt/opsdesk/internal/models"
	"github.com/veldt/opsdesk/internal/recordservice"
	"github.com/veldt/opsdesk/internal/schedule"
)

//go:embed templates/*.html
var templateFS embed.FS

// CookieName is the session cookie shared with the JSON API.
const CookieName = "opsdesk_session"

// Handler renders the HTML pages.
type Handler struct {
	svc         *recordservice.Service
	gate        *auth.Gate
	sessions    *auth.Sessions
	authEnabled bool
	tmpl        *template.Template
}

// NewRouter builds the page router. When authEnabled is true every page
// except /login requires a live session cookie and redirects to /login
// otherwise.
func NewRouter(svc *recordservice.Service, gate *auth.Gate, sessions *auth.Sessions, authEnabled bool) chi.Router {
	h := &Handler{
		svc:         svc,
		gate:        gate,
		sessions:    sessions,
		authEnabled: authEnabled,
		tmpl: template.Must(template.New("").Funcs(template.FuncMap{
			"formatTime": schedule.FormatTimestamp,
			"duration":   schedule.MeetingDuration,
		}).ParseFS(templateFS, "templates/*.html")),
	}

	r := chi.NewRouter()
	r.Get("/login", h.loginPage)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/", h.dashboard)
	})

	return r
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.authEnabled {
			c, err := r.Cookie(CookieName)
			if err != nil || !h.sessions.Valid(c.Value) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render template", slog.String("template", name), slog.String("error", err.Error()))
	}
}

type loginView struct {
	Error string
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if !h.authEnabled {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, "login.html", loginView{})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.authEnabled {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, "login.html", loginView{Error: "invalid form submission"})
		return
	}
	if !h.gate.Authenticate(r.PostFormValue("password")) {
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, "login.html", loginView{Error: "wrong password"})
		return
	}
	token := h.sessions.Start()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		h.sessions.End(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// countBar is one bar of a CSS bar chart. Percent is relative to the largest
// count in the group so the longest bar always spans the full width.
type countBar struct {
	Label   string
	Count   int
	Percent int
}

type pendingView struct {
	models.PendingAction
	Tier      schedule.Tier
	TierLabel string
}

type dashboardView struct {
	Stats       models.Stats
	ByStatus    []countBar
	BySeverity  []countBar
	Critical    []models.Incident
	Pending     []pendingView
	Recent      []models.Minutes
	AuthEnabled bool
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view := dashboardView{AuthEnabled: h.authEnabled}

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		slog.Error("dashboard stats", slog.String("error", err.Error()))
		return
	}
	view.Stats = stats

	// Failures below degrade to an empty section rather than a blank page.
	byStatus, err := h.svc.CountsByStatus(ctx)
	if err != nil {
		slog.Error("dashboard counts by status", slog.String("error", err.Error()))
	} else {
		view.ByStatus = bars(byStatus)
	}
	bySeverity, err := h.svc.CountsBySeverity(ctx)
	if err != nil {
		slog.Error("dashboard counts by severity", slog.String("error", err.Error()))
	} else {
		view.BySeverity = bars(bySeverity)
	}

	critical, err := h.svc.CriticalOpen(ctx)
	if err != nil {
		slog.Error("dashboard critical incidents", slog.String("error", err.Error()))
	} else {
		view.Critical = critical
	}

	pending, err := h.svc.PendingActionItems(ctx)
	if err != nil {
		slog.Error("dashboard pending actions", slog.String("error", err.Error()))
	} else {
		today := time.Now()
		for _, p := range pending {
			tier := schedule.Bucket(p.DueDate, today)
			view.Pending = append(view.Pending, pendingView{
				PendingAction: p,
				Tier:          tier,
				TierLabel:     tier.Label(),
			})
		}
	}

	recent, err := h.svc.ListMinutes(ctx, 5)
	if err != nil {
		slog.Error("dashboard recent minutes", slog.String("error", err.Error()))
	} else {
		view.Recent = recent
	}

	h.render(w, "dashboard.html", view)
}

func bars(counts map[string]int) []countBar {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	out := make([]countBar, 0, len(counts))
	for label, c := range counts {
		pct := 0
		if max > 0 {
			pct = c * 100 / max
		}
		out = append(out, countBar{Label: label, Count: c, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
