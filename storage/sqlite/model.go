package sqlite

import (
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/uptrace/bun"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`
	ID            string `bun:"id,pk"`
	Command       string `bun:"command,notnull"`

	State      job.State `bun:"state,notnull,default:0"`
	Attempts   uint32    `bun:"attempts,notnull,default:0"`
	MaxRetries uint32    `bun:"max_retries,notnull"`
	Priority   int       `bun:"priority,notnull,default:5"`

	RunAt     *time.Time `bun:"run_at,nullzero,default:null"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	ErrorMessage   string     `bun:"error_message,nullzero"`
	LastExecutedAt *time.Time `bun:"last_executed_at,nullzero,default:null"`
}

func (jm *jobModel) toJob() *job.Job {
	ret := &job.Job{
		ID:             jm.ID,
		Command:        jm.Command,
		State:          jm.State,
		Attempts:       jm.Attempts,
		MaxRetries:     jm.MaxRetries,
		Priority:       jm.Priority,
		CreatedAt:      jm.CreatedAt,
		UpdatedAt:      jm.UpdatedAt,
		ErrorMessage:   jm.ErrorMessage,
		LastExecutedAt: jm.LastExecutedAt,
	}
	if jm.RunAt != nil {
		ret.RunAt = *jm.RunAt
	}
	return ret
}

func fromJob(j *job.Job) *jobModel {
	now := time.Now().UTC()
	var runAt *time.Time
	if !j.RunAt.IsZero() {
		t := j.RunAt
		runAt = &t
	}
	return &jobModel{
		ID:         j.ID,
		Command:    j.Command,
		State:      job.Pending,
		Attempts:   0,
		MaxRetries: j.MaxRetries,
		Priority:   j.Priority,
		RunAt:      runAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// metricEventModel is the append-only row backing storage.MetricEvent-shaped
// records. Seq is an autoincrement surrogate serving as the monotonic
// sequence number the spec requires.
type metricEventModel struct {
	bun.BaseModel `bun:"table:metric_events,alias:me"`
	Seq           int64  `bun:"seq,pk,autoincrement"`
	JobID         string `bun:"job_id,notnull"`
	EventType     string `bun:"event_type,notnull"`

	Timestamp   time.Time `bun:"timestamp,notnull,default:current_timestamp"`
	DurationMs  *int64    `bun:"duration_ms,nullzero,default:null"`
	ErrorMessage string   `bun:"error_message,nullzero"`
}
