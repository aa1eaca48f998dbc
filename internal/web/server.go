package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"skillboard/internal/controller"
	"skillboard/internal/dataset"
	"skillboard/internal/logging"
	"skillboard/internal/model"
	"skillboard/internal/publish"
	"skillboard/internal/statusutil"
	"skillboard/internal/view"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const defaultSessionTTL = 12 * time.Hour

type ServerConfig struct {
	Addr string
	// Data is the dataset path. Ignored when Cache is set.
	Data  string
	Cache *dataset.Cache

	Logger     *slog.Logger
	SessionTTL time.Duration
}

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	cache  *dataset.Cache
	secret []byte
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Data = strings.TrimSpace(cfg.Data)
	if cfg.Cache == nil {
		if cfg.Data == "" {
			return nil, errors.New("web: missing data")
		}
		if cfg.Data == "-" {
			return nil, errors.New("web: --data - is not supported (sessions reload the file)")
		}
		cfg.Cache = dataset.NewCache(cfg.Data)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":  strings.TrimSpace,
		"level": view.ClampLevel,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	secret, err := newSecret()
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		tmpl:     tmpl,
		cache:    cfg.Cache,
		secret:   secret,
		log:      cfg.Logger,
		now:      time.Now,
		sessions: map[string]*session{},
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Watch reloads the cached dataset when the data file changes. New sessions
// start from the new data; open sessions keep theirs and show a notice.
func (s *Server) Watch(ctx context.Context) error {
	return s.cache.WatchAndInvalidate(ctx, func() {
		s.log.Info("data file changed", "path", s.cache.Path(), "version", s.cache.Version())
		s.notifyDataChanged()
	})
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /api/dashboard", s.handleAPIDashboard)
	mux.HandleFunc("POST /category/{value}", s.handleCategory)
	mux.HandleFunc("POST /status/{value}", s.handleStatus)
	mux.HandleFunc("POST /skills/{id}/select", s.handleSelect)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /session/reset", s.handleSessionReset)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type filterOption struct {
	Value  string
	Label  string
	URL    string
	Active bool
}

type dashboardVM struct {
	D          view.Dashboard
	Categories []filterOption
	Statuses   []filterOption
	Stale      bool
}

type pageVM struct {
	Title     string
	Dashboard dashboardVM
}

type reportVM struct {
	Title string
	HTML  template.HTML
}

type errorVM struct {
	Title   string
	Message string
}

func (s *Server) dashboardVM(sess *session) dashboardVM {
	d := sess.snapshot()
	vm := dashboardVM{D: d, Stale: sess.dataVersion != s.cache.Version()}

	cats := model.CategoryFilters()
	if !containsFilter(cats, d.Filters.Category) {
		cats = append(cats, d.Filters.Category)
	}
	for _, c := range cats {
		vm.Categories = append(vm.Categories, filterOption{
			Value:  string(c),
			Label:  string(c),
			URL:    "/category/" + url.PathEscape(string(c)),
			Active: c == d.Filters.Category,
		})
	}
	for _, st := range model.StatusFilters() {
		vm.Statuses = append(vm.Statuses, filterOption{
			Value:  string(st),
			Label:  string(st),
			URL:    "/status/" + url.PathEscape(string(st)),
			Active: st == d.Filters.Status,
		})
	}
	return vm
}

func containsFilter(xs []model.CategoryFilter, v model.CategoryFilter) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, status int, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

// writeLoadError answers a request whose session could not be created.
func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Could not load the dashboard data: " + err.Error()
	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, msg))
		return
	}
	s.writeHTMLTemplate(w, http.StatusServiceUnavailable, "error_page", errorVM{Title: "skillboard", Message: msg})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFor(w, r)
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	s.writeHTMLTemplate(w, http.StatusOK, "page", pageVM{Title: "skillboard", Dashboard: s.dashboardVM(sess)})
}

func (s *Server) renderDashboard(sess *session) (string, error) {
	return s.renderTemplate("dashboard", s.dashboardVM(sess))
}

// handleEvents streams #dashboard patches for the caller's session until
// the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	ch, cancel := sess.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	patch := func() {
		html, err := s.renderDashboard(sess)
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector("#dashboard"), datastar.WithMode(datastar.ElementPatchModeOuter))
	}
	patch()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			patch()
		}
	}
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Datastar-Request")), "true")
}

// respond finishes an event request: Datastar gets the new #dashboard over
// SSE, a plain form post is redirected back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *session) {
	if !isDatastarRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sse := datastar.NewSSE(w, r)
	html, err := s.renderDashboard(sess)
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#dashboard"), datastar.WithMode(datastar.ElementPatchModeOuter))
}

func (s *Server) applyEvent(w http.ResponseWriter, r *http.Request, ev controller.Event) {
	sess, err := s.sessionFor(w, r)
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	res := sess.dispatch(ev)
	s.log.Debug("web event", "session", sess.id, "event", fmt.Sprint(ev), "applied", res.Applied, "changed", res.Changed)
	s.respond(w, r, sess)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := statusutil.NormalizeCategoryFilter(r.PathValue("value"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.applyEvent(w, r, controller.CategoryChanged{Category: cat})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := statusutil.NormalizeStatusFilter(r.PathValue("value"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.applyEvent(w, r, controller.StatusChanged{Status: st})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		http.Error(w, "invalid skill id", http.StatusBadRequest)
		return
	}
	s.applyEvent(w, r, controller.SkillSelected{SkillID: id})
}

// handleToggle sets a task's done flag from ?done=true|false, or flips it
// when done is absent.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}
	var done *bool
	if raw := strings.TrimSpace(r.FormValue("done")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid done (expected true|false)", http.StatusBadRequest)
			return
		}
		done = &v
	}

	sess, err := s.sessionFor(w, r)
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	res := sess.toggle(id, done)
	s.log.Debug("web event", "session", sess.id, "event", "task-toggled", "task", id, "applied", res.Applied, "changed", res.Changed)
	s.respond(w, r, sess)
}

// handleSessionReset drops the caller's session; the next page load starts a
// new one from the current data file.
func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	_ = s.dropSession(w, r)
	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		_ = sse.ExecuteScript(`window.location.assign("/")`)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFor(w, r)
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	md := sess.report(publish.RenderOptions{GeneratedAt: s.now().UTC()})
	s.writeHTMLTemplate(w, http.StatusOK, "report_page", reportVM{Title: "Skills report", HTML: renderMarkdownHTML(md)})
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	vm := s.dashboardVM(sess)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": vm.D,
		"meta": map[string]any{"stale": vm.Stale},
	})
}
