package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmeyers/taskflow/internal/api"
	"github.com/bmeyers/taskflow/internal/auth"
	"github.com/bmeyers/taskflow/internal/cache"
	"github.com/bmeyers/taskflow/internal/models"
)

func newServices(t *testing.T, handler http.Handler) *Services {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := auth.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SetCredential(&models.UserSummary{ID: 1}, "token", "refresh"))

	client := api.New(srv.URL, store, 5*time.Second)
	return New(client, cache.New(time.Minute))
}

func taskPage(tasks ...map[string]any) map[string]any {
	return map[string]any{
		"count":        len(tasks),
		"page_size":    25,
		"total_pages":  1,
		"current_page": 1,
		"results":      tasks,
	}
}

func TestTasksReadThroughCache(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(taskPage(
			map[string]any{"id": 1, "title": "one", "status": "todo"},
		))
	})

	svc := newServices(t, mux)
	ctx := context.Background()

	for n := 0; n < 3; n++ {
		page, err := svc.Tasks(ctx, api.TaskFilters{})
		require.NoError(t, err)
		require.Len(t, page.Results, 1)
	}
	assert.Equal(t, int32(1), listCalls.Load(), "repeat reads are served from cache")
}

func TestDifferentFiltersAreDifferentEntries(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(taskPage())
	})

	svc := newServices(t, mux)
	ctx := context.Background()

	p1 := int64(1)
	p2 := int64(2)
	_, err := svc.Tasks(ctx, api.TaskFilters{Project: &p1})
	require.NoError(t, err)
	_, err = svc.Tasks(ctx, api.TaskFilters{Project: &p2})
	require.NoError(t, err)
	_, err = svc.Tasks(ctx, api.TaskFilters{Project: &p1})
	require.NoError(t, err)

	assert.Equal(t, int32(2), listCalls.Load())
}

func TestChangeStatusInvalidatesTaskReads(t *testing.T) {
	var listCalls, projectCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(taskPage(
			map[string]any{"id": 1, "title": "one", "status": "todo"},
		))
	})
	mux.HandleFunc("/tasks/1/change_status/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "title": "one", "status": "done"})
	})
	mux.HandleFunc("/projects/", func(w http.ResponseWriter, r *http.Request) {
		projectCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count": 0, "page_size": 25, "total_pages": 1, "current_page": 1,
			"results": []any{},
		})
	})

	svc := newServices(t, mux)
	ctx := context.Background()

	_, err := svc.Tasks(ctx, api.TaskFilters{})
	require.NoError(t, err)
	_, err = svc.Projects(ctx, api.ProjectFilters{})
	require.NoError(t, err)

	require.NoError(t, svc.ChangeTaskStatus(ctx, 1, models.StatusDone))

	_, err = svc.Tasks(ctx, api.TaskFilters{})
	require.NoError(t, err)
	_, err = svc.Projects(ctx, api.ProjectFilters{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), listCalls.Load(), "task lists go stale after the move")
	assert.Equal(t, int32(1), projectCalls.Load(), "project lists are untouched")
}

func TestFailedMutationLeavesCacheIntact(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(taskPage(
			map[string]any{"id": 1, "title": "one", "status": "todo"},
		))
	})
	mux.HandleFunc("/tasks/1/change_status/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "moved concurrently"})
	})

	svc := newServices(t, mux)
	ctx := context.Background()

	_, err := svc.Tasks(ctx, api.TaskFilters{})
	require.NoError(t, err)

	err = svc.ChangeTaskStatus(ctx, 1, models.StatusDone)
	var conflict *api.ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = svc.Tasks(ctx, api.TaskFilters{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), listCalls.Load(), "a rejected move must not drop cached reads")
}
