package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dispatch graph metrics.
var (
	IntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentmatch",
			Name:      "intents_total",
			Help:      "Classified intents by label",
		},
		[]string{"intent", "fallback"},
	)

	NodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentmatch",
			Name:      "node_duration_seconds",
			Help:      "Time spent in each dispatch node",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"node"},
	)

	NodeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentmatch",
			Name:      "node_errors_total",
			Help:      "Handler failures routed to the error node",
		},
		[]string{"node"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentmatch",
			Name:      "search_results",
			Help:      "Number of matches returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"kind", "show_all"},
	)
)

var orchMetricsRegistered bool

// RegisterOrchestratorMetrics registers dispatch metrics. Must be called once from main.
func RegisterOrchestratorMetrics() {
	if orchMetricsRegistered {
		return
	}
	prometheus.MustRegister(IntentsTotal, NodeDuration, NodeErrorsTotal, SearchResults)
	orchMetricsRegistered = true
}

// RegisterAll registers every metric family of the service.
func RegisterAll() {
	RegisterHTTPMetrics()
	RegisterEmbeddingMetrics()
	RegisterLLMMetrics()
	RegisterOrchestratorMetrics()
}
