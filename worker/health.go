package worker

import (
	"sync"
	"time"
)

// Heartbeat is a single worker's last-published liveness snapshot, per
// spec.md §4.5: published on every loop iteration, both idle and
// working.
type Heartbeat struct {
	WorkerID      int
	LastHeartbeat time.Time
	JobsProcessed int64
}

// HealthMap is the shared, single-writer-per-worker/multi-reader health
// map described in spec.md §5. A coarse mutex is sufficient: writes are
// infrequent relative to read fan-out from `worker health` / the
// dashboard's /api/health.
type HealthMap struct {
	mu        sync.Mutex
	beats     map[int]Heartbeat
	aliveTTL  time.Duration
}

// NewHealthMap creates an empty HealthMap. A worker is considered alive
// iff now - LastHeartbeat < aliveTTL.
func NewHealthMap(aliveTTL time.Duration) *HealthMap {
	return &HealthMap{
		beats:    make(map[int]Heartbeat),
		aliveTTL: aliveTTL,
	}
}

// Publish records workerID's current heartbeat and processed count.
func (h *HealthMap) Publish(workerID int, jobsProcessed int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beats[workerID] = Heartbeat{
		WorkerID:      workerID,
		LastHeartbeat: time.Now(),
		JobsProcessed: jobsProcessed,
	}
}

// WorkerStatus is a point-in-time liveness report for one worker.
type WorkerStatus struct {
	WorkerID      int
	Alive         bool
	JobsProcessed int64
	LastHeartbeat time.Time
}

// Snapshot returns the current status of every worker that has
// published at least one heartbeat.
func (h *HealthMap) Snapshot() []WorkerStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	ret := make([]WorkerStatus, 0, len(h.beats))
	for _, b := range h.beats {
		ret = append(ret, WorkerStatus{
			WorkerID:      b.WorkerID,
			Alive:         now.Sub(b.LastHeartbeat) < h.aliveTTL,
			JobsProcessed: b.JobsProcessed,
			LastHeartbeat: b.LastHeartbeat,
		})
	}
	return ret
}
