package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novelnest_book_mutations_total",
		Help: "Book mutations handled, labelled by operation and outcome.",
	}, []string{"operation", "outcome"})

	ReferenceRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novelnest_reference_retries_total",
		Help: "Author/genre resolve attempts that were retried after a storage fault.",
	}, []string{"kind"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novelnest_events_published_total",
		Help: "Events confirmed by the broker, labelled by event type.",
	}, []string{"event_type"})

	EventsDeadLettered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novelnest_events_dead_lettered_total",
		Help: "Events whose delivery attempts were exhausted.",
	}, []string{"event_type"})

	PublishAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "novelnest_publish_attempts",
		Help:    "Send attempts needed per publish call.",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
	})

	PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "novelnest_publish_duration_ms",
		Help:    "Publish latency including retries in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	OutboxBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "novelnest_outbox_backlog",
		Help: "Pending outbox rows picked up by the last forwarder pass.",
	})
)
