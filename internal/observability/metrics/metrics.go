package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	checkoutTotal   *prometheus.CounterVec
	discountTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		checkoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifeline",
			Subsystem: "booking",
			Name:      "checkout_total",
			Help:      "Total checkout submissions",
		}, []string{"status", "delivery_method"}),
		discountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifeline",
			Subsystem: "booking",
			Name:      "discount_apply_total",
			Help:      "Total discount code applications",
		}, []string{"status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lifeline",
			Subsystem: "booking",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of upstream clinic API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.checkoutTotal, m.discountTotal, m.upstreamLatency)
	return m
}

func (m *BookingMetrics) ObserveCheckout(status, deliveryMethod string) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(status, deliveryMethod).Inc()
}

func (m *BookingMetrics) ObserveDiscount(success bool) {
	if m == nil {
		return
	}
	label := "rejected"
	if success {
		label = "applied"
	}
	m.discountTotal.WithLabelValues(label).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation).Observe(seconds)
}
