package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.IncAvailabilityCheck(true)
		m.IncReservationCreated("pending")
		m.IncPricingFallback("malformed_tiers")
		m.IncPaymentRequest("success")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("rental-test", prometheus.NewRegistry())

	m.IncAvailabilityCheck(true)
	m.IncAvailabilityCheck(true)
	m.IncAvailabilityCheck(false)
	m.ObserveDBQuery("query", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.availabilityChecks.WithLabelValues("rental-test", "available")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availabilityChecks.WithLabelValues("rental-test", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("rental-test", "query")))
}
