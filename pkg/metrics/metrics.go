package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceHTTP      = "http"
	SourceGRPC      = "grpc"
	SourceSimulator = "simulator"

	StatusSent   = "sent"
	StatusFailed = "failed"
)

var (
	ReadingsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thp_readings_ingested_total",
			Help: "Total number of readings persisted",
		},
		[]string{"source"},
	)

	ThresholdBreachesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thp_threshold_breaches_total",
			Help: "Total number of metric values above their threshold",
		},
		[]string{"metric"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thp_notifications_total",
			Help: "Total number of notification send attempts",
		},
		[]string{"status"}, // status: sent, failed
	)

	NotificationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thp_notifications_in_flight",
			Help: "Notification sends currently waiting on the messaging channel",
		},
	)

	NotificationSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thp_notification_send_duration_seconds",
			Help:    "Time taken by the messaging channel to accept a message",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thp_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
