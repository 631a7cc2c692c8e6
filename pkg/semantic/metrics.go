// Copyright 2025 The Serpent Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package semantic

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

const (
	namespace = "serpent"
	subsystem = "semantic"
)

// Flatten results used as metric label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Metrics holds prometheus metrics for validation and flattening.
type Metrics struct {
	flattenTime   *prometheus.HistogramVec
	diagnostics   *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
}

// NewMetrics creates unregistered metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		flattenTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flatten_duration_seconds",
				Help:      "Time spent flattening one class, in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~0.26s
			},
			[]string{"result"}, // "success", "error" or "skipped"
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "diagnostics_total",
				Help:      "Diagnostics reported, by stage and code.",
			},
			[]string{"stage", "code"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flatten_cache_requests_total",
				Help:      "Feature table lookups, by cache result.",
			},
			[]string{"result"}, // "hit" or "miss"
		),
	}
}

// ObserveFlatten records the flattening of one class.
func (m *Metrics) ObserveFlatten(durationSeconds float64, result string) {
	m.flattenTime.WithLabelValues(result).Observe(durationSeconds)
}

// CountDiagnostics records every diagnostic of l.
func (m *Metrics) CountDiagnostics(l diag.List) {
	for _, d := range l {
		m.diagnostics.WithLabelValues(d.Stage, string(d.Code)).Inc()
	}
}

// ObserveCache records a feature table lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// MustRegister registers the metrics with the given Prometheus registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.flattenTime)
	registry.MustRegister(m.diagnostics)
	registry.MustRegister(m.cacheRequests)
}
