// Package metrics exposes settlement and notification counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Prometheus struct {
	registry *prometheus.Registry

	runs         prometheus.Counter
	runDuration  prometheus.Histogram
	reservations *prometheus.CounterVec
	charges      prometheus.Counter
	reminders    *prometheus.CounterVec
	delivered    *prometheus.CounterVec
}

// NewPrometheus registers on its own registry so tests can build several.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kilnbook_settlement_runs_total",
			Help: "Settlement runs started.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kilnbook_settlement_run_duration_seconds",
			Help:    "Wall time of settlement runs.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kilnbook_settlement_reservations_total",
			Help: "Reservations processed by settlement, by result.",
		}, []string{"result"}),
		charges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kilnbook_settlement_charges_total",
			Help: "Participant charges debited.",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kilnbook_reminders_total",
			Help: "Reminder notices, by result.",
		}, []string{"result"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kilnbook_notifications_delivered_total",
			Help: "Notification jobs handed to the publisher, by kind and status.",
		}, []string{"kind", "status"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.runs, p.runDuration, p.reservations, p.charges, p.reminders, p.delivered,
	)
	return p
}

func (p *Prometheus) RunStarted()                 { p.runs.Inc() }
func (p *Prometheus) RunFinished(d time.Duration) { p.runDuration.Observe(d.Seconds()) }
func (p *Prometheus) Reservation(result string)   { p.reservations.WithLabelValues(result).Inc() }
func (p *Prometheus) Charge()                     { p.charges.Inc() }
func (p *Prometheus) Reminder(result string)      { p.reminders.WithLabelValues(result).Inc() }

func (p *Prometheus) Delivered(kind, status string) {
	p.delivered.WithLabelValues(kind, status).Inc()
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
