package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// mutationsTotal counts applied mutations by operation.
	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtracker_mutations_total",
			Help: "Applied tracker mutations by operation.",
		},
		[]string{"op"},
	)

	// persistFailures counts failed writes to the state mirror.
	persistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "medtracker_persist_failures_total",
			Help: "Failed writes of the in-memory state to the store.",
		},
	)

	// malformedState counts persisted collections discarded as unparseable.
	malformedState = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtracker_malformed_state_total",
			Help: "Persisted collections that failed to parse and were reset.",
		},
		[]string{"key"},
	)

	// remindersSent counts reminder notifications handed to the notifier.
	remindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtracker_reminders_sent_total",
			Help: "Reminder notifications by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(mutationsTotal, persistFailures, malformedState, remindersSent)
}
