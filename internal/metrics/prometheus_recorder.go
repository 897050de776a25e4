package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	documents       *prom.CounterVec
	corpusDocuments prom.Gauge
	corpusPages     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "shardpress",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "shardpress",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "shardpress",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "shardpress",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.documents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "shardpress",
			Name:      "documents_total",
			Help:      "Source documents processed, by acceptance result",
		}, []string{"result"})
		pr.corpusDocuments = prom.NewGauge(prom.GaugeOpts{
			Namespace: "shardpress",
			Name:      "corpus_documents",
			Help:      "Documents in the corpus for the last build",
		})
		pr.corpusPages = prom.NewGauge(prom.GaugeOpts{
			Namespace: "shardpress",
			Name:      "corpus_pages",
			Help:      "Page shards produced by the last build",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.documents, pr.corpusDocuments, pr.corpusPages)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}
func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}
func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddDocuments(accepted, rejected int) {
	if p == nil || p.documents == nil {
		return
	}
	if accepted > 0 {
		p.documents.WithLabelValues("accepted").Add(float64(accepted))
	}
	if rejected > 0 {
		p.documents.WithLabelValues("rejected").Add(float64(rejected))
	}
}

func (p *PrometheusRecorder) SetCorpusSize(documents, pages int) {
	if p == nil || p.corpusDocuments == nil {
		return
	}
	p.corpusDocuments.Set(float64(documents))
	p.corpusPages.Set(float64(pages))
}
