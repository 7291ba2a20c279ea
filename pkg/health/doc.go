// Package health provides liveness and readiness HTTP handlers for
// container orchestrators and uptime monitors.
//
// Liveness always answers OK; Readiness runs a named set of dependency
// checks in parallel under a shared timeout and answers 503 when any
// fail:
//
//	r.Get("/health/live", health.Liveness())
//	r.Get("/health/ready", health.Readiness(health.Checks{
//		"storage": store.Ping,
//	}, health.WithLogger(log)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the
// client asks for JSON via the Accept header or ?format=json, in which
// case the per-check breakdown is included.
package health
