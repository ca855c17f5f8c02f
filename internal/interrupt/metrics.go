package interrupt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interrupt_utterances_total",
		Help: "Total non-empty utterances evaluated",
	})

	metricSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interrupt_suppressed_total",
		Help: "Utterances suppressed as filler or low confidence",
	})

	metricAllowed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interrupt_allowed_total",
		Help: "Utterances allowed through as genuine speech",
	})

	metricLowConfidenceBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interrupt_low_confidence_blocks_total",
		Help: "Utterances suppressed by the confidence gate",
	})

	metricClassifierPredictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interrupt_classifier_predictions_total",
		Help: "Classifier invocations during evaluation",
	})
)
