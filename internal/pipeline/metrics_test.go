package pipeline

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, action string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, reconciledIssues.WithLabelValues(action).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordRetracted(t *testing.T) {
	m := NewMetricsRecorder()
	before := counterValue(t, "retracted")

	m.RecordRetracted(0)
	assert.Equal(t, before, counterValue(t, "retracted"))

	m.RecordRetracted(2)
	assert.Equal(t, before+2, counterValue(t, "retracted"))
}
