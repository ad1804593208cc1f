package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		dialogEventsTotal,
		dialogTransitionsTotal,
		dialogErrorsTotal,
	)
}

var (
	dialogEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_events_total",
			Help: "Inbound events handled, labelled by the state they arrived in.",
		},
		[]string{"state"},
	)

	dialogTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_transitions_total",
			Help: "State transitions persisted after a handled event.",
		},
		[]string{"from", "to"},
	)

	dialogErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_errors_total",
			Help: "Handler failures by error class.",
		},
		[]string{"class"},
	)
)

func IncDialogEvent(state string) {
	dialogEventsTotal.WithLabelValues(state).Inc()
}

func IncDialogTransition(from, to string) {
	dialogTransitionsTotal.WithLabelValues(from, to).Inc()
}

func IncDialogError(class string) {
	dialogErrorsTotal.WithLabelValues(class).Inc()
}
