package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mzahan92/socialite/feed/internal/trending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	refreshErr error
	status     trending.Status
	calls      int
}

func (f *fakeScheduler) RefreshNow() error {
	f.calls++
	return f.refreshErr
}

func (f *fakeScheduler) Status() trending.Status { return f.status }

func adminRequest(t *testing.T, method, path string, handler func(echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler(c))
	return rec
}

func TestTriggerRefreshDisabled(t *testing.T) {
	scheduler := &fakeScheduler{}
	h := NewAdminHandler(scheduler, false)

	rec := adminRequest(t, http.MethodPost, "/api/v1/feed/admin/trending/refresh", h.TriggerRefresh)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, scheduler.calls)
}

func TestTriggerRefreshSuccess(t *testing.T) {
	scheduler := &fakeScheduler{}
	h := NewAdminHandler(scheduler, true)

	rec := adminRequest(t, http.MethodPost, "/api/v1/feed/admin/trending/refresh", h.TriggerRefresh)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, scheduler.calls)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestTriggerRefreshConflictWhileRunning(t *testing.T) {
	scheduler := &fakeScheduler{refreshErr: trending.ErrRefreshInProgress}
	h := NewAdminHandler(scheduler, true)

	rec := adminRequest(t, http.MethodPost, "/api/v1/feed/admin/trending/refresh", h.TriggerRefresh)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTriggerRefreshFailure(t *testing.T) {
	scheduler := &fakeScheduler{refreshErr: errors.New("mongo down")}
	h := NewAdminHandler(scheduler, true)

	rec := adminRequest(t, http.MethodPost, "/api/v1/feed/admin/trending/refresh", h.TriggerRefresh)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetStatus(t *testing.T) {
	lastRun := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scheduler := &fakeScheduler{status: trending.Status{
		Enabled:     true,
		IsRunning:   false,
		LastRunTime: &lastRun,
		Schedule:    "5m0s",
	}}
	h := NewAdminHandler(scheduler, true)

	rec := adminRequest(t, http.MethodGet, "/api/v1/feed/admin/trending/status", h.GetStatus)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status trending.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Enabled)
	assert.Equal(t, "5m0s", status.Schedule)
	require.NotNil(t, status.LastRunTime)
	assert.True(t, status.LastRunTime.Equal(lastRun))
}
