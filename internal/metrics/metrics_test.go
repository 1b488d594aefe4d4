package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics(t *testing.T) {
	m := New(zap.NewNop())

	m.RecordCreated("referral")
	m.RecordCreated("referral")
	m.RecordCreated("visit")
	m.RecordReferralAmount(12.5)
	m.RecordRun("referral", false, 0.2)
	m.RecordRun("referral", true, 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generated.WithLabelValues("referral")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generated.WithLabelValues("visit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("referral")))

	// Неизвестные метрики игнорируются
	m.IncrementCounter("unknown_total", "x")
	m.ObserveHistogram("unknown", 1)
}

func TestNewMetricsTwice(t *testing.T) {
	// Собственный реестр позволяет создавать несколько экземпляров
	assert.NotPanics(t, func() {
		New(zap.NewNop())
		New(zap.NewNop())
	})
}

func TestWriteTextfile(t *testing.T) {
	m := New(zap.NewNop())
	m.RecordCreated("affiliate")

	path := filepath.Join(t.TempDir(), "affwp.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `affwp_generated_entities_total{entity="affiliate"} 1`)

	// Пустой путь отключает экспорт
	assert.NoError(t, m.WriteTextfile(""))
}
