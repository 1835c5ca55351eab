package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSink_FireInc(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSink(reg, "test")

	s.FireInc("session_new_in.intro")
	s.FireInc("session_new_in.intro")
	s.FireInc("state_entered.fname")

	assert.Equal(t, float64(2),
		testutil.ToFloat64(s.counts.WithLabelValues("session_new_in.intro")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(s.counts.WithLabelValues("state_entered.fname")))
}

func TestSink_FireMax_KeepsWatermark(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSink(reg, "test")

	s.FireMax("unique_users", 5)
	s.FireMax("unique_users", 3)

	assert.Equal(t, float64(5),
		testutil.ToFloat64(s.maxGauges.WithLabelValues("unique_users")),
		"a lower value must not pull the watermark back down")

	s.FireMax("unique_users", 9)
	assert.Equal(t, float64(9),
		testutil.ToFloat64(s.maxGauges.WithLabelValues("unique_users")))
}

func TestSink_DottedNamesBecomeLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSink(reg, "test")

	s.FireInc("possible_timeout_in.session1_end")

	count, err := testutil.GatherAndCount(reg, "ussd_events_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
