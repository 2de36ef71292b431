// Package health provides liveness and readiness endpoints for the exporter
// service.
//
// Liveness only says the process is up. Readiness runs the registered
// checks concurrently, each bounded by the checker timeout:
//
//	checker := health.New(5 * time.Second)
//	checker.Register("history", health.PingCheck(store), true)
//	checker.Register("source", health.PingCheck(client), false)
//	checker.Register("snapshot", health.FileFreshnessCheck("data/snapshots/zdenci.csv", 2*time.Hour), false)
//
//	r.Get("/healthz", checker.LivenessHandler())
//	r.Get("/readyz", checker.ReadinessHandler())
//
// A failing critical check answers 503 ("unhealthy"). Failing optional
// checks answer 200 with status "degraded".
package health
