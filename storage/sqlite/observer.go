package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/storage"
)

// Get retrieves a job by its identifier.
//
// If no job with the given id exists, Get returns (nil, nil). Get
// performs a simple SELECT and applies no locking beyond what the
// database provides.
func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	var model jobModel
	err := s.db.NewSelect().
		Model(&model).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return model.toJob(), nil
}

// List returns a snapshot of jobs matching state, ordered by created_at.
// state=job.Unknown returns jobs in any state.
func (s *Store) List(ctx context.Context, state job.State) ([]*job.Job, error) {
	var models []jobModel
	query := s.db.NewSelect().Model(&models).Order("created_at ASC")
	if state != job.Unknown {
		query = query.Where("state = ?", state)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(models))
	for i := range models {
		ret[i] = models[i].toJob()
	}
	return ret, nil
}

// Stats returns job counts grouped by state.
func (s *Store) Stats(ctx context.Context) (*storage.Stats, error) {
	var rows []struct {
		State job.State `bun:"state"`
		Count int64     `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state, count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	ret := &storage.Stats{}
	for _, row := range rows {
		switch row.State {
		case job.Pending:
			ret.Pending = row.Count
		case job.Processing:
			ret.Processing = row.Count
		case job.Completed:
			ret.Completed = row.Count
		case job.Dead:
			ret.Dead = row.Count
		}
	}
	return ret, nil
}

// MetricsSummary returns per-event-type counts, the mean duration_ms
// over completed events, and the last n events ordered by seq
// descending.
func (s *Store) MetricsSummary(ctx context.Context, n int) (*storage.MetricsSummary, error) {
	var countRows []struct {
		EventType string `bun:"event_type"`
		Count     int64  `bun:"count"`
	}
	if err := s.db.NewSelect().
		Model((*metricEventModel)(nil)).
		ColumnExpr("event_type, count(*) AS count").
		Group("event_type").
		Scan(ctx, &countRows); err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	if err := s.db.NewSelect().
		Model((*metricEventModel)(nil)).
		ColumnExpr("avg(duration_ms)").
		Where("event_type = ?", storage.EventCompleted).
		Scan(ctx, &avg); err != nil {
		return nil, err
	}

	if n <= 0 {
		n = 10
	}
	var recentModels []metricEventModel
	if err := s.db.NewSelect().
		Model(&recentModels).
		Order("seq DESC").
		Limit(n).
		Scan(ctx); err != nil {
		return nil, err
	}

	ret := &storage.MetricsSummary{Counts: make(map[string]int64, len(countRows))}
	for _, row := range countRows {
		ret.Counts[row.EventType] = row.Count
	}
	if avg.Valid {
		ret.AvgDurationMs = avg.Float64
	}
	ret.Recent = make([]*storage.MetricEvent, len(recentModels))
	for i := range recentModels {
		m := recentModels[i]
		ret.Recent[i] = &storage.MetricEvent{
			Seq:          m.Seq,
			JobID:        m.JobID,
			EventType:    m.EventType,
			Timestamp:    m.Timestamp,
			DurationMs:   m.DurationMs,
			ErrorMessage: m.ErrorMessage,
		}
	}
	return ret, nil
}
