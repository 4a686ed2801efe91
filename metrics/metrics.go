// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes request, export and log-record counters in the
// Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/mentoria/applog"
)

const namespace = "mentoria"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Requests   *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	LogRecords *prometheus.CounterVec
	Exports    *prometheus.CounterVec
	ExportRows *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		LogRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_records_total",
			Help:      "Error records written, by category.",
		}, []string{"type"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Completed exports by listing kind and format.",
		}, []string{"kind", "format"}),
		ExportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_rows_total",
			Help:      "Student rows written to exports.",
		}, []string{"kind", "format"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.Duration, m.LogRecords, m.Exports, m.ExportRows,
	)

	// zero series so dashboards see every category before the first error
	for _, c := range applog.Categories {
		m.LogRecords.WithLabelValues(string(c))
	}

	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRecord counts one error record. It fits applog.Options.OnRecord.
func (m *Metrics) ObserveRecord(rec applog.Record) {
	m.LogRecords.WithLabelValues(string(rec.Type)).Inc()
}

// ObserveExport counts a finished export of rows students.
func (m *Metrics) ObserveExport(kind, format string, rows int) {
	m.Exports.WithLabelValues(kind, format).Inc()
	m.ExportRows.WithLabelValues(kind, format).Add(float64(rows))
}

// Instrument records count and latency of next under the fixed route label.
func (m *Metrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	labels := prometheus.Labels{"route": route}
	counted := promhttp.InstrumentHandlerCounter(m.Requests.MustCurryWith(labels), next)
	return promhttp.InstrumentHandlerDuration(m.Duration.MustCurryWith(labels), counted)
}
