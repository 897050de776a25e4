package metrics

import (
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("load", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("load", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.AddDocuments(5, 2)
	pr.SetCorpusSize(5, 1)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, " ")
	for _, want := range []string{"shardpress_build_duration_seconds", "shardpress_documents_total", "shardpress_corpus_pages"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing metric %s in %s", want, joined)
		}
	}
}

func TestPrometheusRecorderNilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("load", time.Second)
	pr.ObserveBuildDuration(time.Second)
	pr.IncStageResult("load", ResultFatal)
	pr.IncBuildOutcome("failed")
	pr.AddDocuments(1, 1)
	pr.SetCorpusSize(1, 1)
}
