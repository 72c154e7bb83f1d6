package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/queue"
	"github.com/queuectl/queuectl/worker"
)

// Server holds the collaborators the dashboard's handlers depend on.
type Server struct {
	manager *queue.Manager
	health  *worker.HealthMap
}

// NewServer creates a Server backed by manager. health may be nil if
// no worker pool is running in this process, in which case
// GET /api/health reports an empty worker list.
func NewServer(manager *queue.Manager, health *worker.HealthMap) *Server {
	return &Server{manager: manager, health: health}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.manager.Stats(r.Context())
	if err != nil {
		fromStoreError(w, r, err)
		return
	}
	ok(w, stats)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	state := job.Unknown
	if raw := r.URL.Query().Get("state"); raw != "" {
		parsed, err := job.ParseState(raw)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		state = parsed
	}
	jobs, err := s.manager.List(r.Context(), state)
	if err != nil {
		fromStoreError(w, r, err)
		return
	}
	ok(w, jobs)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.manager.MetricsSummary(r.Context(), 10)
	if err != nil {
		fromStoreError(w, r, err)
		return
	}
	ok(w, summary)
}

type enqueueBody struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Priority   int       `json:"priority"`
	MaxRetries uint32    `json:"max_retries"`
	RunAt      time.Time `json:"run_at"`
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var body enqueueBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "malformed request body: "+err.Error())
		return
	}
	j, err := s.manager.Enqueue(r.Context(), queue.EnqueueRequest{
		ID:         body.ID,
		Command:    body.Command,
		Priority:   body.Priority,
		MaxRetries: body.MaxRetries,
		RunAt:      body.RunAt,
	})
	if err != nil {
		fromStoreError(w, r, err)
		return
	}
	created(w, j)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	id := chiURLParam(r, "id")
	if err := s.manager.RetryDead(r.Context(), id); err != nil {
		fromStoreError(w, r, err)
		return
	}
	j, err := s.manager.Get(r.Context(), id)
	if err != nil {
		fromStoreError(w, r, err)
		return
	}
	ok(w, j)
}

func (s *Server) handleWorkerHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		ok(w, []worker.WorkerStatus{})
		return
	}
	ok(w, s.health.Snapshot())
}
