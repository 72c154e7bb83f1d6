package httpapi_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/queuectl/queuectl/httpapi"
	"github.com/queuectl/queuectl/queue"
	"github.com/queuectl/queuectl/storage/sqlite"
	"github.com/queuectl/queuectl/worker"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	sqldb, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	sqlite.MustInitSchema(context.Background(), db)

	store := sqlite.NewStore(db)
	manager := queue.NewManager(store, queue.Defaults{MaxRetries: 3, Priority: 5})
	server := httpapi.NewServer(manager, worker.NewHealthMap(60_000_000_000))
	return httpapi.NewRouter(server)
}

func TestEnqueueThenGetStats(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"id": "job-1", "command": "true"})
	req := httptest.NewRequest(http.MethodPost, "/api/enqueue", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats["Pending"])
}

func TestEnqueueMissingCommandIsBadRequest(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"id": "job-2"})
	req := httptest.NewRequest(http.MethodPost, "/api/enqueue", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetryUnknownJobIsNotFound(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/retry/does-not-exist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListJobsFiltersByState(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"id": "job-3", "command": "true"})
	req := httptest.NewRequest(http.MethodPost, "/api/enqueue", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/jobs?state=pending", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/jobs?state=notaknownstate", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkerHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var statuses []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statuses))
	assert.Empty(t, statuses)
}
