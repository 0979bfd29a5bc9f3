// Package prom exports frame and arena statistics of an enginecore.Core to
// Prometheus.
//
//	c := prom.NewCollector(prometheus.NewRegistry())
//	core, err := enginecore.New(enginecore.WithMetricsCollector(c))
//	http.Handle("/metrics", c.Handler())
package prom
