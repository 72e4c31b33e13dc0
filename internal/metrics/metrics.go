package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CompletionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegen_completion_calls_total",
			Help: "Completion requests issued, by phase and outcome",
		},
		[]string{"phase", "outcome"},
	)

	CompletionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegen_completion_attempts_total",
			Help: "Raw attempts against the completion backend, including retries",
		},
		[]string{"error_kind"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegen_fallbacks_total",
			Help: "Artifacts replaced by deterministic fallback content",
		},
		[]string{"phase", "reason"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegen_cache_lookups_total",
			Help: "Artifact cache lookups by result",
		},
		[]string{"result"},
	)

	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitegen_phase_duration_seconds",
			Help:    "Duration of each generation phase in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"phase"},
	)

	PromptBytesSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitegen_prompt_bytes_saved_total",
			Help: "Bytes removed from outbound prompts by the compressor",
		},
	)

	InvariantRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegen_invariant_repairs_total",
			Help: "Final-pass structural repairs applied by the assembler",
		},
		[]string{"invariant"},
	)
)
