// Package api exposes read-only JSON endpoints over a running traffic
// scheduler: current status, active sessions, and the analytics
// snapshot. Observation only — there is no control plane.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/shopkeep/internal/persistence"
	"github.com/talgya/shopkeep/internal/shop"
	"github.com/talgya/shopkeep/internal/traffic"
)

// Server serves shop and traffic state over HTTP.
type Server struct {
	Scheduler *traffic.Scheduler
	Shop      *shop.Shop
	DB        *persistence.DB // Optional; /visits returns 404 without it
	Port      int

	started time.Time
}

// Start registers routes and serves in a background goroutine.
func (s *Server) Start() {
	s.started = time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/v1/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/v1/visits", s.handleVisits)

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server failed", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	m := s.Shop.Metrics()
	writeJSON(w, map[string]any{
		"uptime":           humanize.Time(s.started),
		"traffic_level":    s.Scheduler.Level().Name(),
		"traffic_score":    traffic.Score(m),
		"active_sessions":  s.Scheduler.ActiveCount(),
		"visits":           s.Scheduler.VisitCount(),
		"reputation_grade": m.ReputationGrade,
		"utilization":      m.Utilization,
		"sales_last_hour":  m.SalesLastHour,
		"ambiance":         s.Shop.Ambiance(),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	a := s.Scheduler.Analytics()
	writeJSON(w, map[string]any{
		"snapshot":       a,
		"revenue_pretty": humanize.CommafWithDigits(a.TotalRevenue, 2) + " crowns",
		"avg_visit":      a.AvgDuration.Round(time.Millisecond).String(),
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"count":     s.Scheduler.ActiveCount(),
		"customers": s.Scheduler.ActiveCustomers(),
	})
}

func (s *Server) handleVisits(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no visit store configured", http.StatusNotFound)
		return
	}
	rows, err := s.DB.RecentVisits(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}
