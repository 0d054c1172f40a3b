// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"
	"time"

	"github.com/haldre/assistant-gateway/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	proposalsTotalCounter       *prometheus.CounterVec
	toolExecutionsTotalCounter  *prometheus.CounterVec
	toolExecutionDurationMetric prometheus.Histogram
	draftLatencyMetric          prometheus.Histogram
	draftDeclinedCounter        prometheus.Counter
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		proposalsTotalCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proposals_total",
				Help: "Total number of proposal status transitions by status.",
			},
			[]string{"status"},
		)

		toolExecutionsTotalCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_executions_total",
				Help: "Total number of tool executions by tool and outcome.",
			},
			[]string{"tool", "outcome"},
		)

		toolExecutionDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		)

		draftLatencyMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "draft_latency_seconds",
				Help:    "Latency of drafting collaborator calls in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		)

		draftDeclinedCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "drafts_declined_total",
				Help: "Total number of drafts that did not qualify for a proposal.",
			},
		)

		prometheus.MustRegister(
			proposalsTotalCounter,
			toolExecutionsTotalCounter,
			toolExecutionDurationMetric,
			draftLatencyMetric,
			draftDeclinedCounter,
		)

		// Ensure counter vectors are visible at /metrics before first increment.
		for _, status := range []domain.Status{
			domain.StatusPending,
			domain.StatusApproved,
			domain.StatusRejected,
			domain.StatusExecuted,
			domain.StatusFailed,
		} {
			proposalsTotalCounter.WithLabelValues(string(status))
		}
	})
}

func IncProposalStatus(status string) {
	Init()
	proposalsTotalCounter.WithLabelValues(status).Inc()
}

func IncToolExecution(tool, outcome string) {
	Init()
	toolExecutionsTotalCounter.WithLabelValues(tool, outcome).Inc()
}

func ObserveToolExecutionDuration(d time.Duration) {
	Init()
	toolExecutionDurationMetric.Observe(d.Seconds())
}

func ObserveDraftLatency(d time.Duration) {
	Init()
	draftLatencyMetric.Observe(d.Seconds())
}

func IncDraftDeclined() {
	Init()
	draftDeclinedCounter.Inc()
}
