package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

type fakeMetrics struct {
	mu       sync.Mutex
	statuses []string
}

func (m *fakeMetrics) RecordSnapshot(status string, finished time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func records() []zdenci.Record {
	return []zdenci.Record{
		{"naziv_gc": "Trešnjevka", "lokacija": "Ozaljska 1", "lon": "15.95", "lat": "45.80"},
		{"naziv_gc": "Centar", "lokacija": "Ilica 5", "lon": "15.97", "lat": "45.81"},
		{"naziv_gc": "Centar", "lokacija": "Gajeva 2", "lon": "", "lat": "x"},
	}
}

func newRefresher(t *testing.T, lister Lister, opts ...Option) (*Refresher, string) {
	t.Helper()
	sorter, err := transform.NewSorter(transform.DefaultLocale)
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "snapshots")
	return NewRefresher(dir, lister, sorter, opts...), dir
}

func TestRefresh_WritesBothFiles(t *testing.T) {
	m := &fakeMetrics{}
	r, dir := newRefresher(t, ListerFunc(func(ctx context.Context) ([]zdenci.Record, error) {
		return records(), nil
	}), WithMetrics(m))

	res, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, []string{filepath.Join(dir, "zdenci.csv"), filepath.Join(dir, "zdenci.json")}, res.Files)
	assert.Same(t, res, r.Last())
	assert.Equal(t, []string{"success"}, m.statuses)

	csvData, err := os.ReadFile(r.Path(zdenci.FormatCSV))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(csvData), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Gajeva 2")
	assert.Contains(t, lines[2], "Ilica 5")
	assert.Contains(t, lines[3], "Ozaljska 1")

	jsonData, err := os.ReadFile(r.Path(zdenci.FormatJSON))
	require.NoError(t, err)
	var groups []map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Centar", groups[0]["naziv_gc"])

	members := groups[0]["zdenci"].([]any)
	first := members[0].(map[string]any)
	assert.Equal(t, "https://schema.org/Place", first["@type"])
	assert.Nil(t, first["lon"])
	assert.Nil(t, first["lat"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestRefresh_WithoutJSONLD(t *testing.T) {
	r, _ := newRefresher(t, ListerFunc(func(ctx context.Context) ([]zdenci.Record, error) {
		return records(), nil
	}), WithJSONLD(false))

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	f, err := r.Open(zdenci.FormatJSON)
	require.NoError(t, err)
	defer f.Close()

	var groups []map[string]any
	require.NoError(t, json.NewDecoder(f).Decode(&groups))
	first := groups[0]["zdenci"].([]any)[0].(map[string]any)
	assert.NotContains(t, first, "@type")
}

func TestRefresh_ListErrorKeepsPreviousSnapshot(t *testing.T) {
	m := &fakeMetrics{}
	fail := false
	r, _ := newRefresher(t, ListerFunc(func(ctx context.Context) ([]zdenci.Record, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return records(), nil
	}), WithMetrics(m))

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	before, err := os.ReadFile(r.Path(zdenci.FormatCSV))
	require.NoError(t, err)

	fail = true
	_, err = r.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")

	after, err := os.ReadFile(r.Path(zdenci.FormatCSV))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"success", "error"}, m.statuses)
}

func TestScheduler(t *testing.T) {
	s := NewScheduler(nil)

	var runs atomic.Int32
	job := JobFunc{JobName: "count", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}}

	require.NoError(t, s.Add("*/5 * * * *", job))
	assert.Error(t, s.Add("*/5 * * * *", job), "duplicate job name")
	assert.Error(t, s.Add("not cron", JobFunc{JobName: "bad"}))
	require.NoError(t, s.Add("", JobFunc{JobName: "disabled"}))

	assert.Nil(t, s.NextRun("count"))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.True(t, s.IsRunning())

	require.Eventually(t, func() bool { return s.NextRun("count") != nil }, time.Second, 10*time.Millisecond)
	assert.True(t, s.NextRun("count").After(time.Now()))
	assert.Nil(t, s.NextRun("disabled"))

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	require.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestScheduler_RunNowError(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.Add("@hourly", JobFunc{JobName: "boom", Fn: func(ctx context.Context) error {
		return errors.New("boom")
	}}))

	err := s.RunNow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom: boom")
	s.Stop()
}

func TestRefresh_SetJSONLDAppliesToNextRefresh(t *testing.T) {
	r, _ := newRefresher(t, ListerFunc(func(ctx context.Context) ([]zdenci.Record, error) {
		return records(), nil
	}))

	firstMember := func() map[string]any {
		_, err := r.Refresh(context.Background())
		require.NoError(t, err)
		data, err := os.ReadFile(r.Path(zdenci.FormatJSON))
		require.NoError(t, err)
		var groups []map[string]any
		require.NoError(t, json.Unmarshal(data, &groups))
		return groups[0]["zdenci"].([]any)[0].(map[string]any)
	}

	assert.Contains(t, firstMember(), "@type")
	r.SetJSONLD(false)
	assert.NotContains(t, firstMember(), "@type")
}
