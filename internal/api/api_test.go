package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/veldt/opsdesk/internal/auth"
	"github.com/veldt/opsdesk/internal/recordservice"
	"github.com/veldt/opsdesk/internal/testutil"
)

// testEnv builds a service and router backed by a temp database. password ""
// means the gate is disabled.
func testEnv(t *testing.T, password string) (*recordservice.Service, http.Handler, *auth.Sessions) {
	t.Helper()

	svc := recordservice.NewService(testutil.TestStore(t), nil)
	gate := auth.NewGate(auth.HashSecret(password))
	sessions := auth.NewSessions(0)
	router := NewRouter(svc, gate, sessions, password != "", nil)
	return svc, router, sessions
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetNoteHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", map[string]any{
		"title": "hello",
		"body":  "world",
		"tags":  []string{"x"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created IDResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodGet, "/notes/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var note struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &note); err != nil {
		t.Fatal(err)
	}
	if note.Title != "hello" || len(note.Tags) != 1 {
		t.Errorf("note = %+v", note)
	}
}

func TestCreateNoteValidationHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", map[string]any{"body": "untitled"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetNoteNotFoundHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/notes/99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateAndArchiveNoteHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"title": "v1"})

	w := doJSON(t, router, http.MethodPatch, "/notes/1", map[string]any{"title": "v2"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/notes/1/archive", map[string]any{"archived": true})
	if w.Code != http.StatusNoContent {
		t.Fatalf("archive status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/notes?archived=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Notes []struct {
			Title string `json:"title"`
		} `json:"notes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Notes) != 1 || listed.Notes[0].Title != "v2" {
		t.Errorf("archived list = %+v", listed.Notes)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/notes/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/notes/search?q=x", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestIncidentLifecycleHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/incidents", map[string]any{
		"description": "payment gateway down",
		"severity":    "critical",
		"occurred_at": "2026-08-28T09:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/incidents/critical", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("critical status = %d", w.Code)
	}
	var crit struct {
		Incidents []struct {
			Description string `json:"description"`
		} `json:"incidents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &crit); err != nil {
		t.Fatal(err)
	}
	if len(crit.Incidents) != 1 {
		t.Fatalf("critical = %+v", crit.Incidents)
	}

	w = doJSON(t, router, http.MethodPatch, "/incidents/1", map[string]any{"status": "resolved"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/incidents/counts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("counts status = %d", w.Code)
	}
	var counts IncidentCountsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
		t.Fatal(err)
	}
	if counts.ByStatus["resolved"] != 1 || counts.BySeverity["critical"] != 1 {
		t.Errorf("counts = %+v", counts)
	}
}

func TestIncidentBadTimestampHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/incidents", map[string]any{
		"description": "x",
		"occurred_at": "yesterday",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMinutesAndPendingActionsHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/minutes", map[string]any{
		"title":        "retro",
		"meeting_date": "2026-08-20",
		"action_items": []map[string]any{
			{"description": "open item", "responsible": "ana", "due_date": "2026-09-01"},
			{"description": "done item", "completed": true},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/actions/pending", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pending status = %d", w.Code)
	}
	var pending struct {
		Actions []struct {
			Description string `json:"description"`
		} `json:"actions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &pending); err != nil {
		t.Fatal(err)
	}
	if len(pending.Actions) != 1 || pending.Actions[0].Description != "open item" {
		t.Errorf("pending = %+v", pending.Actions)
	}

	w = doJSON(t, router, http.MethodGet, "/minutes/range?start=2026-08-01&end=2026-08-31", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("range status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/minutes/range?start=2026-08-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("range without end = %d, want 400", w.Code)
	}
}

func TestStatsHTTP(t *testing.T) {
	_, router, _ := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/notes", map[string]any{"title": "n"})
	doJSON(t, router, http.MethodPost, "/incidents", map[string]any{"description": "i"})

	w := doJSON(t, router, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats struct {
		ActiveNotes   int `json:"active_notes"`
		OpenIncidents int `json:"open_incidents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.ActiveNotes != 1 || stats.OpenIncidents != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAuthFlow(t *testing.T) {
	_, router, _ := testEnv(t, "hunter2")

	// Unauthenticated requests are rejected.
	w := doJSON(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", w.Code)
	}

	// Wrong password.
	w = doJSON(t, router, http.MethodPost, "/login", map[string]any{"password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", w.Code)
	}

	// Correct password issues a token.
	w = doJSON(t, router, http.MethodPost, "/login", map[string]any{"password": "hunter2"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}
	var login LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}
	if login.Token == "" {
		t.Fatal("empty token")
	}

	// Bearer token grants access.
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authed status = %d", rec.Code)
	}

	// So does the session cookie.
	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: login.Token})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie authed status = %d", rec.Code)
	}

	// Logout invalidates the token.
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d, want 401", rec.Code)
	}
}

func TestDisabledModeSkipsAuth(t *testing.T) {
	_, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without any session", w.Code)
	}
}
