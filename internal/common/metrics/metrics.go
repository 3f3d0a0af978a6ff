// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_transitions_total",
			Help: "Total number of state machine transitions by stage",
		},
		[]string{"from", "to"},
	)

	StageBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_blocked_total",
			Help: "Total number of transitions halted by a BLOCK violation",
		},
		[]string{"stage"},
	)

	GuardrailViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardrail_violations_total",
			Help: "Total number of guardrail violations by severity",
		},
		[]string{"stage", "severity"},
	)

	CapabilityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capability_resolutions_total",
			Help: "Total number of profiles produced by capability tier",
		},
		[]string{"tier"},
	)

	CapabilityFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capability_fallbacks_total",
			Help: "Total number of one-shot tier demotions",
		},
		[]string{"from_tier"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of stage processing in seconds",
		},
		[]string{"stage"},
	)
)
