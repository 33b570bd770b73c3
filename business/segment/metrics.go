package segment

import "github.com/prometheus/client_golang/prometheus"

var (
	predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_predictions_total",
		Help: "Successful cluster assignments by cluster",
	}, []string{"cluster"})

	// kind is one of invalid_input, model_not_ready, catalog_unavailable, internal
	predictionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_prediction_errors_total",
		Help: "Failed scoring requests by error kind",
	}, []string{"kind"})

	auditFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "segment_audit_failures_total",
		Help: "Prediction records that could not be persisted",
	})

	modelReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_model_reloads_total",
		Help: "Model artifact reloads by result",
	}, []string{"result"})

	confidenceHist = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "segment_confidence",
		Help:    "Confidence of served cluster assignments",
		Buckets: prometheus.LinearBuckets(50, 5, 11),
	})
)

func init() {
	prometheus.MustRegister(
		predictions,
		predictionErrors,
		auditFailures,
		modelReloads,
		confidenceHist,
	)
}
