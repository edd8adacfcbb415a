// Package metric exposes console bridge metrics to Prometheus.
//
// All metrics live on a private prometheus.Registry owned by Metrics, which
// is served by Handler. A nil *Metrics is valid and records nothing, so
// components can take an optional metrics dependency without nil checks.
package metric
