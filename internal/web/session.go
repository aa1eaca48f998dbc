package web

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"skillboard/internal/controller"
	"skillboard/internal/publish"
	"skillboard/internal/store"
	"skillboard/internal/view"

	"github.com/google/uuid"
)

const sessionCookieName = "skillboard_session"

// session is one browser's dashboard. Its store and controller are only
// touched with mu held; every applied event pings the hub so open SSE
// streams re-render.
type session struct {
	id  string
	hub *resourceHub

	mu          sync.Mutex
	ctl         *controller.Controller
	dataVersion uint64
	lastSeen    time.Time
}

// Render implements controller.Renderer. It runs inside controller calls,
// so mu is already held.
func (s *session) Render(view.Dashboard) {
	s.hub.broadcast()
}

func (s *session) dispatch(ev controller.Event) controller.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctl.Dispatch(ev)
}

// toggle flips a task when done is nil.
func (s *session) toggle(taskID int, done *bool) controller.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := true
	if done != nil {
		next = *done
	} else if t, ok := s.ctl.Store().FindTask(taskID); ok {
		next = !t.Done
	}
	return s.ctl.Dispatch(controller.TaskToggled{TaskID: taskID, Done: next})
}

func (s *session) snapshot() view.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctl.Snapshot()
}

func (s *session) report(opt publish.RenderOptions) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return publish.RenderReportMarkdown(s.ctl.Store(), opt)
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// lookupSession returns the session named by a valid cookie, if any.
func (s *Server) lookupSession(r *http.Request) *session {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	sp, err := verifyToken(s.secret, c.Value)
	if err != nil || sp.Typ != "session" {
		return nil
	}
	s.mu.Lock()
	sess := s.sessions[strings.TrimSpace(sp.Sub)]
	s.mu.Unlock()
	if sess != nil {
		sess.touch(s.now())
	}
	return sess
}

// sessionFor returns the caller's session, creating one (and setting the
// cookie) when there is none. Creating a session loads the dataset; if that
// fails no session is created.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session, error) {
	if sess := s.lookupSession(r); sess != nil {
		return sess, nil
	}

	ds, err := s.cache.Get(r.Context())
	if err != nil {
		s.log.Warn("session load failed", "path", s.cache.Path(), "err", err)
		return nil, err
	}

	sess := &session{
		id:          uuid.NewString(),
		hub:         newResourceHub(),
		dataVersion: s.cache.Version(),
		lastSeen:    s.now(),
	}
	sess.ctl = controller.New(store.New(), sess)
	sess.mu.Lock()
	sess.ctl.Load(ds)
	sess.mu.Unlock()

	token, err := newSessionToken(s.secret, sess.id, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.SessionTTL / time.Second),
	})

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.log.Info("session created", "session", sess.id, "skills", len(ds.Skills), "tasks", len(ds.Tasks), "sessions", n)
	return sess, nil
}

// dropSession forgets the caller's session and expires the cookie.
func (s *Server) dropSession(w http.ResponseWriter, r *http.Request) error {
	sess := s.lookupSession(r)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	if sess == nil {
		return errors.New("no session")
	}
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.log.Info("session dropped", "session", sess.id)
	return nil
}

// pruneLocked drops sessions idle for longer than the TTL that have no open
// streams. s.mu must be held.
func (s *Server) pruneLocked() {
	cutoff := s.now().Add(-s.cfg.SessionTTL)
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) && sess.hub.subscribers() == 0 {
			delete(s.sessions, id)
		}
	}
}

// notifyDataChanged pings every open session so stale-data banners appear.
func (s *Server) notifyDataChanged() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.hub.broadcast()
	}
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
