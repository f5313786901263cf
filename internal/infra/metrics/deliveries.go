package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(deliveriesTotal, fetchTotal, fetchLatencyMs, mailSendLatencyMs)
}

var deliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "deliveries_total",
		Help: "Delivery attempts by channel and outcome.",
	},
	[]string{"channel", "outcome"}, // channel: 'email'|'chat'; outcome: 'success' or a failure kind
)

var fetchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "document_fetch_total",
		Help: "Document host fetches by result.",
	},
	[]string{"result"}, // 'ok', 'error'
)

var fetchLatencyMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "document_fetch_latency_ms",
		Help:    "Document fetch latency distribution in milliseconds.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	},
)

var mailSendLatencyMs = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "mail_send_latency_ms",
		Help:    "SMTP send latency distribution in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	},
)

func IncDelivery(channel, outcome string) {
	deliveriesTotal.WithLabelValues(channel, outcome).Inc()
}

func ObserveFetch(start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fetchTotal.WithLabelValues(result).Inc()
	fetchLatencyMs.Observe(float64(time.Since(start).Milliseconds()))
}

func ObserveMailSend(start time.Time) {
	mailSendLatencyMs.Observe(float64(time.Since(start).Milliseconds()))
}
