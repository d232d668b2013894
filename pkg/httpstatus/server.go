// Package httpstatus exposes felix's liveness/readiness/metrics over
// HTTP while `loop` runs unattended, grounded on the teacher's
// pkg/api health server idiom (ServeMux + net/http.Server, /health and
// /ready as plain JSON, /metrics delegated to pkg/metrics.Handler()).
package httpstatus

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cuemby/felix/pkg/metrics"
)

// Status tracks the outcome of the most recently completed pass so the
// readiness endpoint can report it without reaching into orchestrator
// internals.
type Status struct {
	mu         sync.RWMutex
	lastPassAt time.Time
	lastOK     bool
	hasRun     bool
}

// RecordPass marks a pass as completed; ok is false when the pass
// produced at least one FAILED host.
func (s *Status) RecordPass(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPassAt = time.Now()
	s.lastOK = ok
	s.hasRun = true
}

func (s *Status) snapshot() (at time.Time, ok, hasRun bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPassAt, s.lastOK, s.hasRun
}

// Server is the HTTP surface loop mode serves on Addr.
type Server struct {
	status *Status
	mux    *http.ServeMux
}

// NewServer builds a Server reporting against status. A nil status is
// valid: readiness then always reports that no pass has run yet.
func NewServer(status *Status) *Server {
	if status == nil {
		status = &Status{}
	}
	mux := http.NewServeMux()
	s := &Server{status: status, mux: mux}
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ready", s.readyHandler)
	mux.Handle("/metrics", metrics.Handler())
	return s
}

// Start blocks serving on addr. Intended to run in its own goroutine
// for the lifetime of `felix loop`.
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// healthHandler is a liveness probe: 200 whenever the process can
// answer HTTP at all.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "healthy", Timestamp: time.Now()})
}

type readyResponse struct {
	Status       string    `json:"status"`
	LastPassAt   time.Time `json:"last_pass_at,omitempty"`
	LastPassOK   bool      `json:"last_pass_ok"`
	HasCompleted bool      `json:"has_completed_pass"`
}

// readyHandler reports whether at least one pass has completed. It
// stays "ready" even after a pass with FAILED hosts: partial failure is
// an operational condition for run/catchup to address, not a reason to
// stop serving readiness probes (spec.md §6 exit code 2 vs 1 draws the
// same distinction).
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	at, ok, hasRun := s.status.snapshot()

	body := readyResponse{Status: "ready", LastPassAt: at, LastPassOK: ok, HasCompleted: hasRun}
	if !hasRun {
		body.Status = "starting"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
