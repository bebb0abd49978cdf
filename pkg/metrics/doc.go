// Package metrics exposes upload activity as Prometheus counters.
//
//	reg := prometheus.NewRegistry()
//	registry, err := uploads.NewRegistry(settings,
//		uploads.WithObserver(metrics.NewObserver(metrics.WithRegistry(reg))),
//	)
//
// Counters, all prefixed with the namespace ("uploads" by default):
//   - saved_total{set}
//   - saved_bytes_total{set}
//   - rejected_total{set,extension}
//   - served_total{set,status}
package metrics
