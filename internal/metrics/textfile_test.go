package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveBuildDuration(time.Second)
	pr.AddDocuments(2, 0)

	path := filepath.Join(t.TempDir(), "build.prom")
	if err := WriteTextfile(reg, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "shardpress_documents_total") {
		t.Fatalf("exposition output missing documents counter:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE shardpress_build_duration_seconds histogram") {
		t.Fatalf("exposition output missing histogram type line:\n%s", out)
	}
}

func TestWriteTextfileNilRegistry(t *testing.T) {
	if err := WriteTextfile(nil, filepath.Join(t.TempDir(), "x.prom")); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}
