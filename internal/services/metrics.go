package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"alfredoptarigan/resume-screener/internal/models"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	ResumesProcessed   *prometheus.CounterVec
	GenerationRequests *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	FitScores          prometheus.Histogram
	JobsEnqueued       prometheus.Counter
	JobsProcessing     prometheus.Gauge
	JobsCompleted      *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResumesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_resumes_processed_total",
				Help: "Resumes processed by outcome",
			},
			[]string{"outcome"},
		),
		GenerationRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_generation_requests_total",
				Help: "Generation backend calls by template and status",
			},
			[]string{"template", "status"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_generation_duration_seconds",
				Help:    "Generation backend call duration in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"template"},
		),
		FitScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "screener_fit_score",
				Help:    "Distribution of fit scores for successfully parsed resumes",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 65, 70, 80, 90, 100},
			},
		),
		JobsEnqueued: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "screener_jobs_enqueued_total",
				Help: "Screening jobs enqueued",
			},
		),
		JobsProcessing: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "screener_jobs_processing",
				Help: "Screening jobs currently processing",
			},
		),
		JobsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_jobs_finished_total",
				Help: "Screening jobs finished by status",
			},
			[]string{"status"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_response_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.ResumesProcessed,
			m.GenerationRequests,
			m.GenerationDuration,
			m.FitScores,
			m.JobsEnqueued,
			m.JobsProcessing,
			m.JobsCompleted,
			m.CacheLookups,
		)
	}

	return m
}

func templateLabel(kind models.TemplateKind) string {
	if kind == models.TemplateInterview {
		return "interview"
	}
	return "evaluation"
}

func (m *Metrics) ObserveGeneration(kind models.TemplateKind, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	label := templateLabel(kind)
	m.GenerationRequests.WithLabelValues(label, status).Inc()
	m.GenerationDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (m *Metrics) ObserveResume(outcome string, result models.CandidateResult) {
	if m == nil {
		return
	}
	m.ResumesProcessed.WithLabelValues(outcome).Inc()
	if !result.Failed() {
		m.FitScores.Observe(float64(result.FitScore))
	}
}

func (m *Metrics) JobEnqueued() {
	if m == nil {
		return
	}
	m.JobsEnqueued.Inc()
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.JobsProcessing.Inc()
}

func (m *Metrics) JobFinished(status models.SessionStatus) {
	if m == nil {
		return
	}
	m.JobsProcessing.Dec()
	m.JobsCompleted.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
