package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/config"
	"zdenci/exporter/pkg/grid"
	"zdenci/exporter/pkg/security/auth"
	"zdenci/exporter/pkg/snapshot"
	"zdenci/exporter/pkg/telemetry/logging"
	"zdenci/exporter/pkg/zdenci"
)

const testRecords = `[
  {"naziv_gc": "Trešnjevka - sjever", "lokacija": "Ozaljska 1", "tip_zdenca": "javni", "lon": "15.95", "lat": "45.80"},
  {"naziv_gc": "Donji grad", "lokacija": "Ilica 1", "tip_zdenca": "javni", "lon": "15.97", "lat": "45.81"},
  {"naziv_gc": "Trešnjevka - jug", "lokacija": "Zagorska 2", "tip_zdenca": "privatni"}
]`

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zdenci.json")
	require.NoError(t, os.WriteFile(path, []byte(testRecords), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		spec    string
		want    grid.Order
		wantErr bool
	}{
		{spec: "0", want: grid.Order{Column: 0}},
		{spec: "3:asc", want: grid.Order{Column: 3}},
		{spec: "1:DESC", want: grid.Order{Column: 1, Desc: true}},
		{spec: "x", wantErr: true},
		{spec: "-1", wantErr: true},
		{spec: "2:sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseOrder(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDownload_LocalToDirectory(t *testing.T) {
	records := writeRecords(t)
	out := t.TempDir()

	code, _, stderr := execute(t, "download", "csv",
		"--records", records,
		"--output", out,
		"--column", "1=trešnjevka",
	)
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, stderr, "Saved ")

	data, err := os.ReadFile(filepath.Join(out, "zdenci_filtered.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "naziv_gc,lokacija,"))
	// Sorted by group: "jug" collates before "sjever".
	assert.Contains(t, lines[1], "Zagorska 2")
	assert.Contains(t, lines[2], "Ozaljska 1")
}

func TestDownload_LocalJSONToStdout(t *testing.T) {
	records := writeRecords(t)

	code, stdout, stderr := execute(t, "download", "json",
		"--records", records,
		"--output", "-",
		"--filter", "12:notEmpty",
	)
	require.Equal(t, cli.ExitOK, code, stderr)

	var groups []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Donji grad", groups[0]["naziv_gc"])
	assert.Equal(t, "Trešnjevka - sjever", groups[1]["naziv_gc"])
}

func TestDownload_RemotePassesBodyThrough(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte("naziv_gc,lokacija\nDonji grad,Ilica 1\n"))
	}))
	defer srv.Close()
	t.Setenv("ZDENCI_SOURCE_BASE_URL", srv.URL)

	code, stdout, stderr := execute(t, "download", "csv",
		"--mode", "remote",
		"--search", "Ilica",
		"--output", "-",
	)
	require.Equal(t, cli.ExitOK, code, stderr)

	assert.Equal(t, "/api/zdenci/export", gotPath)
	assert.Equal(t, "format=csv&search=Ilica", gotQuery)
	assert.Equal(t, "naziv_gc,lokacija\nDonji grad,Ilica 1\n", stdout)
}

func TestDownload_RemoteRequiresBaseURL(t *testing.T) {
	t.Setenv("ZDENCI_MODE", "remote")
	code, _, stderr := execute(t, "download", "csv")
	assert.Equal(t, cli.ExitConfig, code)
	assert.Contains(t, stderr, "base_url")
}

func TestDownload_InvalidArguments(t *testing.T) {
	records := writeRecords(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "format", args: []string{"download", "xlsx", "--records", records}, want: cli.ExitConfig},
		{name: "filter", args: []string{"download", "csv", "--records", records, "--filter", "1:bogus=x"}, want: cli.ExitConfig},
		{name: "column index", args: []string{"download", "csv", "--records", records, "--column", "99=x"}, want: cli.ExitConfig},
		{name: "order", args: []string{"download", "csv", "--records", records, "--order", "1:up"}, want: cli.ExitConfig},
		{name: "missing records", args: []string{"download", "csv", "--records", filepath.Join(t.TempDir(), "none.json"), "--output", "-"}, want: cli.ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, tt.want, code, stderr)
		})
	}
}

func TestHistory_RecordsDownloads(t *testing.T) {
	records := writeRecords(t)
	t.Setenv("ZDENCI_HISTORY_ENABLED", "true")
	t.Setenv("ZDENCI_HISTORY_SQLITE_PATH", filepath.Join(t.TempDir(), "history.db"))

	code, _, stderr := execute(t, "download", "csv", "--records", records, "--output", "-")
	require.Equal(t, cli.ExitOK, code, stderr)

	code, stdout, stderr := execute(t, "history", "--output", "json")
	require.Equal(t, cli.ExitOK, code, stderr)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "success", entries[0]["status"])
	assert.Equal(t, "csv", entries[0]["format"])
	assert.Equal(t, "local", entries[0]["mode"])
	assert.EqualValues(t, 3, entries[0]["rows"])

	code, stdout, stderr = execute(t, "history", "prune", "--days", "1")
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, stdout, "Deleted 0 entries")
}

func TestSnapshot_WritesBothFormats(t *testing.T) {
	records := writeRecords(t)
	dir := t.TempDir()

	code, stdout, stderr := execute(t, "snapshot", "--records", records, "--dir", dir)
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, stdout, "Wrote 3 records")

	csvData, err := os.ReadFile(filepath.Join(dir, "zdenci.csv"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(csvData), "\n"))

	jsonData, err := os.ReadFile(filepath.Join(dir, "zdenci.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"@type": "https://schema.org/Place"`)
}

func TestVersionCommand(t *testing.T) {
	orig := Version
	Version = "1.2.3-test"
	defer func() { Version = orig }()

	code, stdout, _ := execute(t, "version")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "zdenci 1.2.3-test")
	assert.Contains(t, stdout, "Go Version:")
}

func TestCompletionCommand(t *testing.T) {
	code, stdout, _ := execute(t, "completion", "bash")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, "zdenci")
}

func TestReloadSink_SignalsOnce(t *testing.T) {
	sink := &reloadSink{table: grid.New(nil), changed: make(chan struct{}, 1)}

	sink.SetRows(nil)
	sink.SetRows([]zdenci.Record{{"lokacija": "Ilica 1"}})

	assert.Equal(t, 1, sink.table.Len())
	assert.Len(t, sink.changed, 1)
}

func TestReloader_AppliesRuntimeSettings(t *testing.T) {
	t.Cleanup(func() { config.SetConfig(nil) })

	path := filepath.Join(t.TempDir(), "zdenci.yaml")
	writeConfig := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	writeConfig("telemetry:\n  logging:\n    level: info\n")

	g := &globals{cfgPath: path, levelVar: new(slog.LevelVar), logger: logging.Discard()}
	admin := auth.NewAPIKeyValidator(nil)
	r := &reloader{
		g:         g,
		refresher: snapshot.NewRefresher(t.TempDir(), nil, nil),
		admin:     admin,
	}

	require.NoError(t, r.reload())
	assert.Equal(t, slog.LevelInfo, g.levelVar.Level())
	assert.Equal(t, 0, admin.Len())
	assert.True(t, config.GetConfig().Snapshot.JSONLD)

	writeConfig(`telemetry:
  logging:
    level: debug
snapshot:
  jsonld: false
server:
  admin_keys: ["kljuc-1", "kljuc-2"]
`)
	require.NoError(t, r.reload())
	assert.Equal(t, slog.LevelDebug, g.levelVar.Level())
	assert.Equal(t, 2, admin.Len())
	assert.False(t, config.GetConfig().Snapshot.JSONLD)

	writeConfig("telemetry: [not, a, map]\n")
	require.Error(t, r.reload())
	assert.Equal(t, slog.LevelDebug, g.levelVar.Level())
	assert.Equal(t, 2, admin.Len())
	assert.Equal(t, []string{"kljuc-1", "kljuc-2"}, config.GetConfig().Server.AdminKeys)
}

func TestReloader_KeepsLevelFromFlags(t *testing.T) {
	t.Cleanup(func() { config.SetConfig(nil) })

	path := filepath.Join(t.TempDir(), "zdenci.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: error\n"), 0o644))

	g := &globals{cfgPath: path, logLevel: "warn", levelVar: new(slog.LevelVar), logger: logging.Discard()}
	g.levelVar.Set(slog.LevelWarn)
	r := &reloader{
		g:         g,
		refresher: snapshot.NewRefresher(t.TempDir(), nil, nil),
		admin:     auth.NewAPIKeyValidator(nil),
	}

	require.NoError(t, r.reload())
	assert.Equal(t, slog.LevelWarn, g.levelVar.Level())
}
