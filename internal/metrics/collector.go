// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var counterDesc = prometheus.NewDesc(
	"lensd_counter_total",
	"Process counters by owning scope and metric name",
	[]string{"scope", "name"},
	nil,
)

// Describe implements prometheus.Collector.
func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	ch <- counterDesc
}

// Collect implements prometheus.Collector.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	for _, s := range r.Snapshot() {
		ch <- prometheus.MustNewConstMetric(counterDesc, prometheus.CounterValue, float64(s.Value), s.Scope, s.Name)
	}
}

var _ prometheus.Collector = (*Registry)(nil)
