// Package metrics exposes Prometheus collectors for interview sessions and
// report generation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenantdesk"

type Recorder struct {
	registry *prometheus.Registry

	sessionsOpen   prometheus.Gauge
	recordings     *prometheus.CounterVec
	retakes        prometheus.Counter
	completions    prometheus.Counter
	submissions    prometheus.Counter
	interviewLoads *prometheus.CounterVec
	reports        *prometheus.CounterVec
}

// New builds a Recorder on its own registry so several servers can coexist
// in one process.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Interview recording sessions currently held in memory.",
		}),
		recordings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recordings_finalized_total",
			Help:      "Answers finalized, by how the recording ended.",
		}, []string{"reason"}),
		retakes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retakes_total",
			Help:      "Answers discarded for a retake.",
		}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_completed_total",
			Help:      "Sessions that answered every question.",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interview_submissions_total",
			Help:      "Submit actions on completed sessions.",
		}),
		interviewLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interview_loads_total",
			Help:      "Interview definition loads, by outcome.",
		}, []string{"outcome"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_reports_total",
			Help:      "Tenant verification PDFs generated, by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		r.sessionsOpen,
		r.recordings,
		r.retakes,
		r.completions,
		r.submissions,
		r.interviewLoads,
		r.reports,
	)
	return r
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WatchRendering exposes the number of PDFs being rendered, read from fn at
// scrape time.
func (r *Recorder) WatchRendering(fn func() int64) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pdf_renders_in_flight",
		Help:      "Verification PDFs currently being rendered.",
	}, func() float64 {
		return float64(fn())
	}))
}

func (r *Recorder) SessionOpened() {
	r.sessionsOpen.Inc()
}

func (r *Recorder) SessionClosed() {
	r.sessionsOpen.Dec()
}

func (r *Recorder) RecordingStopped(reason string) {
	r.recordings.WithLabelValues(reason).Inc()
}

func (r *Recorder) AnswerDiscarded() {
	r.retakes.Inc()
}

func (r *Recorder) Completed() {
	r.completions.Inc()
}

func (r *Recorder) Submitted() {
	r.submissions.Inc()
}

func (r *Recorder) InterviewLoaded(outcome string) {
	r.interviewLoads.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ReportGenerated(succeeded bool) {
	result := "success"
	if !succeeded {
		result = "failure"
	}
	r.reports.WithLabelValues(result).Inc()
}
