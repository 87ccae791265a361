// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service layer needs from metrics collection.
type Recorder interface {
	RecordOrderIngested(created bool)
	RecordCheckEvent(eventType string)
	RecordNotification(kind string, ok bool)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	registry       *prometheus.Registry
	ordersIngested *prometheus.CounterVec
	checkEvents    *prometheus.CounterVec
	notifications  *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ordersIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkscan_orders_ingested_total",
			Help: "Webhook orders processed, by result (created or duplicate).",
		}, []string{"result"}),
		checkEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkscan_check_events_total",
			Help: "Check-in and check-out events recorded, by type.",
		}, []string{"type"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkscan_notifications_total",
			Help: "Notification delivery attempts, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	c.registry.MustRegister(c.ordersIngested, c.checkEvents, c.notifications)
	return c
}

func (c *Collector) RecordOrderIngested(created bool) {
	result := "created"
	if !created {
		result = "duplicate"
	}
	c.ordersIngested.WithLabelValues(result).Inc()
}

func (c *Collector) RecordCheckEvent(eventType string) {
	c.checkEvents.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordNotification(kind string, ok bool) {
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	c.notifications.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything. Used in tests.
type Nop struct{}

func (Nop) RecordOrderIngested(bool)        {}
func (Nop) RecordCheckEvent(string)         {}
func (Nop) RecordNotification(string, bool) {}
