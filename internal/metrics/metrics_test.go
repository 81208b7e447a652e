package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	c.Registration("aspect", ResultAccepted)
	c.Registration("aspect", ResultAccepted)
	c.Registration("aspect", ResultRejected)
	c.Wrap("null", ResultOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Registrations.WithLabelValues("aspect", ResultAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Registrations.WithLabelValues("aspect", ResultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Wraps.WithLabelValues("null", ResultOK)))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	second.Wrap("aspect", ResultError)
	assert.Same(t, first.Wraps, second.Wraps)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Wraps.WithLabelValues("aspect", ResultError)))
}

func TestNew_ConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aspectwrap",
		Name:      "wraps_total",
		Help:      "Wrap calls by mechanism and result",
	}))

	_, err := New(reg)
	require.Error(t, err)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Registration("aspect", ResultAccepted)
		c.Wrap("aspect", ResultOK)
	})
}
