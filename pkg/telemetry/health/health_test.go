package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckReadiness(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	fail := func(ctx context.Context) error { return errors.New("down") }

	tests := []struct {
		name   string
		setup  func(c *Checker)
		status string
	}{
		{"no checks", func(c *Checker) {}, StatusReady},
		{"all ok", func(c *Checker) {
			c.Register("a", ok, true)
			c.Register("b", ok, false)
		}, StatusReady},
		{"optional failing", func(c *Checker) {
			c.Register("a", ok, true)
			c.Register("b", fail, false)
		}, StatusDegraded},
		{"critical failing", func(c *Checker) {
			c.Register("a", fail, true)
			c.Register("b", fail, false)
		}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			tt.setup(c)
			assert.Equal(t, tt.status, c.CheckReadiness(context.Background()).Status)
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	}, true)

	status := c.CheckReadiness(context.Background())
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, ErrCheckTimeout.Error(), status.Checks["slow"].Message)
}

func TestRegisterUnregister(t *testing.T) {
	c := New(0)
	c.Register("b", PingCheck(pingerFunc(func(context.Context) error { return nil })), true)
	c.Register("a", PingCheck(pingerFunc(func(context.Context) error { return nil })), false)
	assert.Equal(t, []string{"a", "b"}, c.Names())

	c.Unregister("a")
	assert.Equal(t, []string{"b"}, c.Names())
}

func TestFileFreshnessCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zdenci.csv")
	ctx := context.Background()

	assert.Error(t, FileFreshnessCheck(path, 0)(ctx))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.NoError(t, FileFreshnessCheck(path, time.Hour)(ctx))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	err := FileFreshnessCheck(path, time.Hour)(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale")
	assert.NoError(t, FileFreshnessCheck(path, 0)(ctx))
}

func TestReadinessHandler(t *testing.T) {
	c := New(time.Second)
	c.Register("history", func(ctx context.Context) error { return errors.New("closed") }, true)

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, "closed", body.Checks["history"].Message)
	assert.True(t, body.Checks["history"].Critical)

	c.Register("history", func(ctx context.Context) error { return nil }, true)
	rec = httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodHead, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestLivenessAndVersionHandlers(t *testing.T) {
	c := New(0)

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	VersionHandler(VersionInfo{Version: "1.2.3", Commit: "abc", BuildTime: "2026-01-01"})(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
