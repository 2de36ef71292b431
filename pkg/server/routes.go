package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"zdenci/exporter/pkg/delivery"
	"zdenci/exporter/pkg/export"
	"zdenci/exporter/pkg/snapshot"
	"zdenci/exporter/pkg/telemetry/health"
	"zdenci/exporter/pkg/telemetry/tracing"
	"zdenci/exporter/pkg/zdenci"
)

// Scheduler reports when a job runs next.
type Scheduler interface {
	NextRun(name string) *time.Time
}

// Routes holds the collaborators served by the router. Nil members disable
// their endpoints.
type Routes struct {
	Snapshots   *snapshot.Refresher
	Scheduler   Scheduler
	Health      *health.Checker
	Metrics     http.Handler
	MetricsPath string
	Version     health.VersionInfo
	Tracer      *tracing.Tracer
	Logger      *slog.Logger

	// Admin guards state-changing endpoints. Nil leaves them open.
	Admin func(http.Handler) http.Handler
}

// NewRouter builds the HTTP handler.
func NewRouter(rt Routes) http.Handler {
	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{routes: rt, logger: logger}

	r := chi.NewRouter()
	r.Use(
		RequestID,
		Logging(logger),
		middleware.Recoverer,
	)
	if rt.Tracer != nil {
		r.Use(tracing.HTTPMiddleware(rt.Tracer))
	}

	if rt.Health != nil {
		r.Get("/healthz", rt.Health.LivenessHandler())
		r.Head("/healthz", rt.Health.LivenessHandler())
		r.Get("/readyz", rt.Health.ReadinessHandler())
		r.Head("/readyz", rt.Health.ReadinessHandler())
	}
	r.Get("/version", health.VersionHandler(rt.Version))

	if rt.Metrics != nil {
		path := rt.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, rt.Metrics)
	}

	if rt.Snapshots != nil {
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.snapshotStatus)
			if rt.Admin != nil {
				r.With(rt.Admin).Post("/refresh", h.refreshSnapshots)
			} else {
				r.Post("/refresh", h.refreshSnapshots)
			}
			r.Get("/{format}", h.downloadSnapshot)
		})
	}

	return r
}

type handlers struct {
	routes Routes
	logger *slog.Logger
}

type snapshotStatus struct {
	Records     int        `json:"records"`
	Files       []string   `json:"files,omitempty"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}

func (h *handlers) status() snapshotStatus {
	st := snapshotStatus{}
	if last := h.routes.Snapshots.Last(); last != nil {
		st.Records = last.Records
		st.Files = last.Files
		t := last.FinishedAt
		st.RefreshedAt = &t
	}
	if h.routes.Scheduler != nil {
		st.NextRun = h.routes.Scheduler.NextRun(h.routes.Snapshots.Name())
	}
	return st
}

func (h *handlers) snapshotStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}

func (h *handlers) refreshSnapshots(w http.ResponseWriter, r *http.Request) {
	if _, err := h.routes.Snapshots.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, h.status())
}

func (h *handlers) downloadSnapshot(w http.ResponseWriter, r *http.Request) {
	format, err := zdenci.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	data, err := os.ReadFile(h.routes.Snapshots.Path(format))
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, errors.New("snapshot not generated yet"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	p := &export.Payload{
		Data:     data,
		Filename: snapshot.Filename(format),
		MIMEType: format.MIMEType(),
		Format:   format,
		Rows:     -1,
	}
	if _, err := delivery.NewHTTPDeliverer(w).Deliver(r.Context(), p); err != nil {
		h.logger.WarnContext(r.Context(), "snapshot download interrupted", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
