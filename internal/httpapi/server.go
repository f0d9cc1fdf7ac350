package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/syncwatch/internal/domain"
	apimw "github.com/hamed0406/syncwatch/internal/httpapi/middleware"
	"github.com/hamed0406/syncwatch/internal/repo"
	"github.com/hamed0406/syncwatch/internal/scheduler"
	"github.com/hamed0406/syncwatch/internal/tracker"
)

const (
	defaultLimit = 20
	maxLimit     = 500
)

type StateSource interface {
	Snapshot() map[domain.StatusKey]bool
	Unsynced() []domain.StatusKey
}

type SchedulerSource interface {
	Status() scheduler.Status
}

// Server exposes a read-only view of the monitor.
type Server struct {
	Logger        *zap.Logger
	Targets       []domain.Target
	State         StateSource
	Scheduler     SchedulerSource
	Notifications repo.NotificationStore
	Tokens        []string
}

func NewServer(l *zap.Logger, targets []domain.Target, state StateSource, sched SchedulerSource, history repo.NotificationStore, tokens []string) *Server {
	return &Server{Logger: l, Targets: targets, State: state, Scheduler: sched, Notifications: history, Tokens: tokens}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireToken(s.Tokens))
		r.Get("/api/status", s.handleStatus)
		r.Get("/api/notifications", s.handleNotifications)
	})
	return r
}

type clientStatus struct {
	Synced bool `json:"synced"`
	Known  bool `json:"known"`
}

type targetStatus struct {
	Alias   string                  `json:"alias"`
	Clients map[string]clientStatus `json:"clients"`
}

type statusResponse struct {
	Scheduler *scheduler.Status `json:"scheduler,omitempty"`
	Targets   []targetStatus    `json:"targets"`
	Unsynced  []string          `json:"unsynced"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.State.Snapshot()
	resp := statusResponse{
		Targets:  make([]targetStatus, 0, len(s.Targets)),
		Unsynced: []string{},
	}
	if s.Scheduler != nil {
		st := s.Scheduler.Status()
		resp.Scheduler = &st
	}
	for _, t := range s.Targets {
		ts := targetStatus{Alias: t.Alias, Clients: make(map[string]clientStatus, len(domain.SubClients))}
		for _, c := range domain.SubClients {
			v, known := snap[domain.StatusKey{Alias: t.Alias, Client: c}]
			ts.Clients[c.String()] = clientStatus{Synced: tracker.Resolve(v, known), Known: known}
		}
		resp.Targets = append(resp.Targets, ts)
	}
	for _, k := range s.State.Unsynced() {
		resp.Unsynced = append(resp.Unsynced, k.String())
	}
	writeJSON(w, resp)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		http.Error(w, "bad limit", http.StatusBadRequest)
		return
	}
	list, err := s.Notifications.Recent(r.Context(), limit)
	if err != nil {
		s.Logger.Warn("notifications_list_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// parseLimit accepts an empty value (default) or a positive integer, capped.
func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
