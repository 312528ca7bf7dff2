package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelayEventsPublished counts relay events published, per event name.
	RelayEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_relay_events_published_total",
		Help: "Number of real-time events published to the relay.",
	}, []string{"event"})

	// RemindersSent counts reminder mails delivered successfully.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_reminders_sent_total",
		Help: "Number of reminder mails sent.",
	})

	// RemindersFailed counts reminder mail delivery failures.
	RemindersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_reminders_failed_total",
		Help: "Number of reminder mail sends that failed.",
	})
)
