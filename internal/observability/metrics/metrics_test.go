package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveCheckout("success", "In-Person")
	m.ObserveDiscount(true)
	m.ObserveUpstreamLatency("checkout", 0.5)
}

func TestBookingMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveDiscount(false)
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveCheckout("success", "In-Person")
	m.ObserveDiscount(true)
	m.ObserveUpstreamLatency("profile", 0.1)
}
