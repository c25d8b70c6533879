package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geny_chat_turns_total",
			Help: "Total number of assistant chat turns by outcome.",
		},
		[]string{"outcome"},
	)
	stageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geny_stage_failures_total",
			Help: "Total number of pipeline stage failures by stage.",
		},
		[]string{"stage"},
	)
	generationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geny_generation_duration_seconds",
			Help:    "Model generation latency per chat turn.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 45},
		},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geny_query_duration_seconds",
			Help:    "Read-only query latency per chat turn.",
			Buckets: prometheus.DefBuckets,
		},
	)
	unresolvedPlaceholdersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geny_unresolved_placeholders_total",
			Help: "Placeholders left literal in rendered answers. Signals prompt/SQL alias mismatches.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		chatTurnsTotal,
		stageFailuresTotal,
		generationDurationSeconds,
		queryDurationSeconds,
		unresolvedPlaceholdersTotal,
	)
}

func ObserveChatTurn(outcome string) {
	chatTurnsTotal.WithLabelValues(outcome).Inc()
}

func ObserveStageFailure(stage string) {
	stageFailuresTotal.WithLabelValues(stage).Inc()
}

func ObserveGeneration(elapsed time.Duration) {
	generationDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveQuery(elapsed time.Duration) {
	queryDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveUnresolvedPlaceholders(count int) {
	if count > 0 {
		unresolvedPlaceholdersTotal.Add(float64(count))
	}
}
