// Package metrics collects Prometheus metrics for the upload gateway.
//
// The Recorder tracks upload outcomes by terminal state, request durations,
// and staged payload sizes. Middleware instruments the HTTP surface:
//
//	rec := metrics.NewRecorder(metrics.WithNamespace("processlens"))
//	r.Use(metrics.Middleware(rec))
//	r.Handle("/metrics", promhttp.Handler())
package metrics
