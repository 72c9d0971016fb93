package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records placement and payment outcomes.
type CheckoutMetrics struct {
	placementDuration *prometheus.HistogramVec
	ordersPlaced      *prometheus.CounterVec
	ordersRejected    *prometheus.CounterVec
	paymentsVerified  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placementDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed.",
	}, []string{"payment_method"})
	ordersRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order placements rejected before commit.",
	}, []string{"reason"})
	paymentsVerified := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Payment verification outcomes.",
	}, []string{"outcome"})
	reg.MustRegister(placementDuration, ordersPlaced, ordersRejected, paymentsVerified)
	return &CheckoutMetrics{
		placementDuration: placementDuration,
		ordersPlaced:      ordersPlaced,
		ordersRejected:    ordersRejected,
		paymentsVerified:  paymentsVerified,
	}
}

// ObservePlacement records the duration of a committed placement.
func (c *CheckoutMetrics) ObservePlacement(method string, duration time.Duration) {
	if c == nil || c.placementDuration == nil {
		return
	}
	c.placementDuration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncPlaced increments the placed counter for the payment method.
func (c *CheckoutMetrics) IncPlaced(method string) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncRejected increments the rejection counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.ordersRejected == nil {
		return
	}
	c.ordersRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncVerification increments the payment verification counter for the outcome.
func (c *CheckoutMetrics) IncVerification(outcome string) {
	if c == nil || c.paymentsVerified == nil {
		return
	}
	c.paymentsVerified.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
