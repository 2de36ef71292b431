package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// LivenessHandler answers /healthz. It runs no checks: a process that can
// answer is alive.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return jsonEndpoint(func(r *http.Request) (int, any) {
		return http.StatusOK, c.CheckLiveness(r.Context())
	})
}

// ReadinessHandler answers /readyz with every registered check. It returns
// 503 only when a critical check fails; a degraded status is still 200.
//
//	{"status":"degraded","checks":{"history":{"status":"ok","critical":true,"duration_ms":0.4},
//	 "source":{"status":"error","message":"...","critical":false,"duration_ms":12.3}},
//	 "timestamp":"2026-01-01T03:00:00Z"}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return jsonEndpoint(func(r *http.Request) (int, any) {
		status := c.CheckReadiness(r.Context())
		if !status.Ready() {
			return http.StatusServiceUnavailable, status
		}
		return http.StatusOK, status
	})
}

// VersionHandler answers /version with info. An empty GoVersion is filled
// from the runtime.
func VersionHandler(info VersionInfo) http.HandlerFunc {
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}
	return jsonEndpoint(func(*http.Request) (int, any) {
		return http.StatusOK, info
	})
}

// jsonEndpoint adapts fn to a GET/HEAD JSON endpoint. HEAD gets the status code
// and headers without a body.
func jsonEndpoint(fn func(r *http.Request) (int, any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		code, body := fn(r)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}
