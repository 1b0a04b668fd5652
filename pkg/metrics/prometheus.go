package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	lastChange    *prometheus.GaugeVec
	impulsesTotal *prometheus.CounterVec
	passesTotal   prometheus.Counter
	passAttempted prometheus.Gauge
	passImpulses  prometheus.Gauge
	passErrors    prometheus.Gauge
	passDuration  prometheus.Histogram
	notifications *prometheus.CounterVec
}

// New registers the scanner collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		errorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsescan_errors_total",
			Help: "Errors by kind (fetch, compute, universe, notify)",
		}, []string{"kind"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "impulsescan_operation_duration_seconds",
			Help:    "Duration of exchange and notification operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		lastChange: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "impulsescan_last_change_percent",
			Help: "Percent change of the last closed candle per instrument",
		}, []string{"inst_id"}),
		impulsesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsescan_impulses_total",
			Help: "Impulses detected per instrument",
		}, []string{"inst_id"}),
		passesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "impulsescan_passes_total",
			Help: "Completed scan passes",
		}),
		passAttempted: f.NewGauge(prometheus.GaugeOpts{
			Name: "impulsescan_pass_attempted",
			Help: "Instruments attempted in the last pass",
		}),
		passImpulses: f.NewGauge(prometheus.GaugeOpts{
			Name: "impulsescan_pass_impulses",
			Help: "Impulses found in the last pass",
		}),
		passErrors: f.NewGauge(prometheus.GaugeOpts{
			Name: "impulsescan_pass_errors",
			Help: "Instruments that failed in the last pass",
		}),
		passDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "impulsescan_pass_duration_seconds",
			Help:    "Wall-clock duration of a scan pass",
			Buckets: []float64{1, 5, 15, 30, 60, 90, 120, 180, 300},
		}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsescan_notifications_total",
			Help: "Notification deliveries by channel and result",
		}, []string{"channel", "result"}),
	}
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordChange(instID string, pct float64) {
	r.lastChange.WithLabelValues(instID).Set(pct)
}

func (r *Recorder) RecordImpulse(instID string) {
	r.impulsesTotal.WithLabelValues(instID).Inc()
}

// RecordPass records the summary of a finished pass.
func (r *Recorder) RecordPass(attempted, impulses, errors int, seconds float64) {
	r.passesTotal.Inc()
	r.passAttempted.Set(float64(attempted))
	r.passImpulses.Set(float64(impulses))
	r.passErrors.Set(float64(errors))
	r.passDuration.Observe(seconds)
}

func (r *Recorder) RecordNotification(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.notifications.WithLabelValues(channel, result).Inc()
}
