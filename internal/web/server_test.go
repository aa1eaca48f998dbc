package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skillboard/internal/dataset"
)

const testData = `{
  "skills": [
    {"id": 1, "name": "React", "category": "frontend", "level": 80},
    {"id": 2, "name": "Go", "category": "backend", "level": 40},
    {"id": 3, "name": "Git", "category": "tools", "level": 0}
  ],
  "tasks": [
    {"id": 1, "skillId": 1, "text": "Hooks", "priority": "high", "done": false},
    {"id": 2, "skillId": 1, "text": "Suspense", "priority": "low", "done": true},
    {"id": 3, "skillId": 2, "text": "Generics", "priority": "medium", "done": false}
  ]
}`

func writeData(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "skills.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return p
}

func newTestServer(t *testing.T, path string) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Data: path})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

// browser keeps one cookie jar against an in-process handler.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func (b *browser) do(method, target string, datastar bool) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	if datastar {
		req.Header.Set("Datastar-Request", "true")
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return rec
}

type dashboardJSON struct {
	Data struct {
		Filters struct {
			Category string `json:"category"`
			Status   string `json:"status"`
		} `json:"filters"`
		SelectedSkillID *int `json:"selectedSkillId"`
		Skills          []struct {
			ID int `json:"id"`
		} `json:"skills"`
		Tasks []struct {
			ID   int  `json:"id"`
			Done bool `json:"done"`
		} `json:"tasks"`
		Stats struct {
			CompletedTasks        int     `json:"completedTasks"`
			CompletionRatePercent float64 `json:"completionRatePercent"`
		} `json:"stats"`
	} `json:"data"`
	Meta struct {
		Stale bool `json:"stale"`
	} `json:"meta"`
}

func (b *browser) dashboard() dashboardJSON {
	b.t.Helper()
	rec := b.do("GET", "/api/dashboard", false)
	if rec.Code != http.StatusOK {
		b.t.Fatalf("GET /api/dashboard: %d %s", rec.Code, rec.Body.String())
	}
	var out dashboardJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		b.t.Fatalf("decode dashboard: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestNewServer_RequiresData(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error for missing data")
	}
	if _, err := NewServer(ServerConfig{Data: "-"}); err == nil {
		t.Fatalf("expected error for stdin data")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	rec := b.do("GET", "/health", false)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
	if srv.sessionCount() != 0 {
		t.Fatalf("health check must not create a session")
	}
}

func TestHome_CreatesSessionAndRenders(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}

	rec := b.do("GET", "/", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: %d %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`id="dashboard"`, "React", "Go", "Git", "Select a skill to see its tasks.", "33.3%"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if len(b.cookies) != 1 || b.cookies[0].Name != sessionCookieName {
		t.Fatalf("expected session cookie, got %v", b.cookies)
	}
	if srv.sessionCount() != 1 {
		t.Fatalf("expected one session, got %d", srv.sessionCount())
	}

	// Same cookie, same session.
	b.do("GET", "/", false)
	if srv.sessionCount() != 1 {
		t.Fatalf("expected session reuse, got %d sessions", srv.sessionCount())
	}
}

func TestFormPosts_RedirectAndApplyResetRules(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	b.do("GET", "/", false)

	rec := b.do("POST", "/skills/1/select", false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	b.do("POST", "/status/done", false)
	d := b.dashboard()
	if d.Data.SelectedSkillID == nil || *d.Data.SelectedSkillID != 1 {
		t.Fatalf("expected skill 1 selected")
	}
	if d.Data.Filters.Status != "done" || len(d.Data.Tasks) != 1 || d.Data.Tasks[0].ID != 2 {
		t.Fatalf("expected only task 2 under done, got %+v", d.Data)
	}

	b.do("POST", "/category/backend", false)
	d = b.dashboard()
	if d.Data.Filters.Category != "backend" || d.Data.Filters.Status != "all" || d.Data.SelectedSkillID != nil {
		t.Fatalf("category change must clear selection and status, got %+v", d.Data)
	}
	if len(d.Data.Skills) != 1 || d.Data.Skills[0].ID != 2 {
		t.Fatalf("expected only Go, got %+v", d.Data.Skills)
	}
}

func TestToggle(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	b.do("GET", "/", false)
	b.do("POST", "/skills/1/select", false)

	b.do("POST", "/tasks/1/toggle?done=true", false)
	d := b.dashboard()
	if d.Data.Stats.CompletedTasks != 2 {
		t.Fatalf("expected 2 completed, got %d", d.Data.Stats.CompletedTasks)
	}

	// No done parameter flips the current value.
	b.do("POST", "/tasks/1/toggle", false)
	d = b.dashboard()
	if d.Data.Stats.CompletedTasks != 1 {
		t.Fatalf("expected flip back to 1 completed, got %d", d.Data.Stats.CompletedTasks)
	}

	// Unknown task: no error, nothing changes.
	rec := b.do("POST", "/tasks/99/toggle?done=true", false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for unknown task, got %d", rec.Code)
	}
	if got := b.dashboard(); got.Data.Stats.CompletedTasks != 1 {
		t.Fatalf("unknown toggle changed stats: %+v", got.Data.Stats)
	}

	if rec := b.do("POST", "/tasks/1/toggle?done=maybe", false); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad done, got %d", rec.Code)
	}
}

func TestBadInput(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	cases := []string{"/status/someday", "/skills/abc/select", "/tasks/x/toggle"}
	for _, target := range cases {
		if rec := b.do("POST", target, false); rec.Code != http.StatusBadRequest {
			t.Fatalf("POST %s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestUnknownSkillSelect_NoOp(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	b.do("POST", "/skills/1/select", false)
	b.do("POST", "/skills/42/select", false)
	d := b.dashboard()
	if d.Data.SelectedSkillID == nil || *d.Data.SelectedSkillID != 1 {
		t.Fatalf("unknown select must keep the current selection")
	}
}

func TestDatastarPost_PatchesDashboard(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	b.do("GET", "/", false)

	rec := b.do("POST", "/category/frontend", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected SSE response, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "datastar-patch-elements") || !strings.Contains(body, `id="dashboard"`) {
		t.Fatalf("expected dashboard patch, got:\n%s", body)
	}
	if strings.Contains(body, ">Go<") {
		t.Fatalf("backend skill should be filtered out:\n%s", body)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	h := srv.Handler()
	a := &browser{t: t, h: h}
	c := &browser{t: t, h: h}
	a.do("GET", "/", false)
	c.do("GET", "/", false)

	a.do("POST", "/category/tools", false)
	if got := c.dashboard().Data.Filters.Category; got != "all" {
		t.Fatalf("second browser saw first browser's filter: %q", got)
	}
	if srv.sessionCount() != 2 {
		t.Fatalf("expected 2 sessions, got %d", srv.sessionCount())
	}
}

func TestTamperedCookie_StartsNewSession(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	b.do("GET", "/", false)
	b.do("POST", "/category/tools", false)

	b.cookies[0].Value += "x"
	if got := b.dashboard().Data.Filters.Category; got != "all" {
		t.Fatalf("expected fresh session, got category %q", got)
	}
}

func TestLoadFailure_NoSession(t *testing.T) {
	srv := newTestServer(t, writeData(t, `{"skills": []}`))
	b := &browser{t: t, h: srv.Handler()}

	rec := b.do("GET", "/", false)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tasks") {
		t.Fatalf("expected error naming the missing field, got:\n%s", rec.Body.String())
	}
	if srv.sessionCount() != 0 || len(b.cookies) != 0 {
		t.Fatalf("failed load must not create a session")
	}
}

func TestStaleDataAndReset(t *testing.T) {
	path := writeData(t, testData)
	cache := dataset.NewCache(path)
	srv, err := NewServer(ServerConfig{Cache: cache})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	b := &browser{t: t, h: srv.Handler()}
	b.do("GET", "/", false)
	b.do("POST", "/category/tools", false)

	updated := strings.Replace(testData, `"Git", "category": "tools", "level": 0`, `"Git", "category": "tools", "level": 60`, 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite data: %v", err)
	}
	cache.Invalidate()

	d := b.dashboard()
	if !d.Meta.Stale || d.Data.Filters.Category != "tools" {
		t.Fatalf("expected stale session that kept its state, got %+v", d)
	}
	if page := b.do("GET", "/", false).Body.String(); !strings.Contains(page, "Reload data") {
		t.Fatalf("expected reload banner")
	}

	rec := b.do("POST", "/session/reset", false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	b.do("GET", "/", false)
	d = b.dashboard()
	if d.Meta.Stale || d.Data.Filters.Category != "all" {
		t.Fatalf("expected fresh session after reset, got %+v", d)
	}
}

func TestReport(t *testing.T) {
	srv := newTestServer(t, writeData(t, testData))
	b := &browser{t: t, h: srv.Handler()}
	rec := b.do("GET", "/report", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /report: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h1") || !strings.Contains(body, "<table>") || !strings.Contains(body, "React") {
		t.Fatalf("expected rendered markdown report, got:\n%s", body)
	}
}

func TestSessionToken(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := newSessionToken(secret, "abc", time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}
	sp, err := verifyToken(secret, tok)
	if err != nil || sp.Sub != "abc" || sp.Typ != "session" {
		t.Fatalf("verify: %+v %v", sp, err)
	}
	if _, err := verifyToken([]byte("other"), tok); err == nil {
		t.Fatalf("expected signature error with another secret")
	}
	expired, _ := signToken(secret, signedPayload{Typ: "session", Sub: "abc", Exp: time.Now().Add(-time.Minute).Unix()})
	if _, err := verifyToken(secret, expired); err == nil {
		t.Fatalf("expected expiry error")
	}
	if _, err := newSessionToken(secret, " ", time.Hour); err == nil {
		t.Fatalf("expected error for blank session id")
	}
}

func TestResourceHub(t *testing.T) {
	h := newResourceHub()
	ch, cancel := h.subscribe()
	h.broadcast()
	select {
	case <-ch:
	default:
		t.Fatalf("expected ping")
	}
	if h.subscribers() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	cancel()
	if h.subscribers() != 0 {
		t.Fatalf("expected 0 subscribers after cancel")
	}
	h.broadcast()
}
