package webserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/spboyer/tagx/internal/report"
	"github.com/spboyer/tagx/internal/session"
	"github.com/spboyer/tagx/internal/tagcounter"
)

// entry serializes access to one session.
type entry struct {
	mu sync.Mutex
	s  *session.Session
}

type api struct {
	opts   session.Options
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

func newAPI(opts session.Options, logger *slog.Logger) *api {
	return &api{
		opts:     opts,
		logger:   logger,
		sessions: make(map[uuid.UUID]*entry),
	}
}

func (a *api) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(a.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Post("/sessions", a.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", a.withSession(a.getSession))
			r.Delete("/", a.deleteSession)
			r.Put("/text", a.withSession(a.selectText))
			r.Put("/stopwords", a.withSession(a.selectStopWords))
			r.Post("/extract", a.withSession(a.extract))
			r.Post("/save", a.withSession(a.save))
		})
	})
	return r
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) createSession(w http.ResponseWriter, _ *http.Request) {
	id := uuid.New()
	a.mu.Lock()
	a.sessions[id] = &entry{s: session.New(a.opts)}
	a.mu.Unlock()

	a.logger.Info("session created", "id", id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (a *api) lookup(r *http.Request) (uuid.UUID, *entry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, nil, false
	}
	a.mu.RLock()
	e, ok := a.sessions[id]
	a.mu.RUnlock()
	return id, e, ok
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *session.Session)

// withSession resolves the {id} parameter and holds the session lock for
// the duration of h.
func (a *api) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, e, ok := a.lookup(r)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(w, r, e.s)
	}
}

func (a *api) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, _, ok := a.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	a.mu.Lock()
	delete(a.sessions, id)
	a.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) getSession(w http.ResponseWriter, _ *http.Request, s *session.Session) {
	writeJSON(w, http.StatusOK, s.State())
}

type pathRequest struct {
	Path string `json:"path"`
}

func decodePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}
	req.Path = strings.TrimSpace(req.Path)
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return "", false
	}
	return req.Path, true
}

func (a *api) selectText(w http.ResponseWriter, r *http.Request, s *session.Session) {
	path, ok := decodePath(w, r)
	if !ok {
		return
	}
	if err := s.SelectTextSource(path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

func (a *api) selectStopWords(w http.ResponseWriter, r *http.Request, s *session.Session) {
	path, ok := decodePath(w, r)
	if !ok {
		return
	}
	if err := s.SelectStopWordSource(path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

func (a *api) extract(w http.ResponseWriter, r *http.Request, s *session.Session) {
	table, err := s.RunExtraction(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(table, report.Options{}))
}

func (a *api) save(w http.ResponseWriter, r *http.Request, s *session.Session) {
	path, ok := decodePath(w, r)
	if !ok {
		return
	}
	if err := s.SaveResults(path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

// writeError maps session errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tagcounter.ErrMissingInput):
		status = http.StatusConflict
	case errors.Is(err, tagcounter.ErrIO):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}
