package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("converting", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("converting", ResultSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncDocumentResult("playbook", ResultSuccess)
	pr.IncDocumentResult("playbook", ResultSuccess)
	pr.IncDocumentResult("standard", ResultFailed)
	pr.SetDocumentsFound(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	assert.InDelta(t, 2, counterValue(t, pr.documents.WithLabelValues("playbook", "success")), 0)
	assert.InDelta(t, 1, counterValue(t, pr.documents.WithLabelValues("standard", "failed")), 0)

	var m dto.Metric
	require.NoError(t, pr.documentsFound.Write(&m))
	assert.InDelta(t, 3, m.GetGauge().GetValue(), 0)
}

func counterValue(t *testing.T, c prom.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncDocumentResult("x", ResultFailed)
		pr.SetDocumentsFound(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetDocumentsFound(7)

	path := filepath.Join(t.TempDir(), "docpages.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "docpages_documents_found 7"), string(data))
}

func TestWriteTextfile_BadPath(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg)

	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"), reg)

	require.Error(t, err)
}
