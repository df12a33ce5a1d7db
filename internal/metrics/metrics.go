package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks domain metrics for the event subsystem: counter webhook
// outcomes, notification fanout, and push delivery.
type Metrics struct {
	CounterEvents    *prometheus.CounterVec
	FanoutRequests   *prometheus.CounterVec
	FanoutRecipients prometheus.Counter
	PushDispatches   *prometheus.CounterVec
	PushMessagesSent prometheus.Counter
	PushTokensPruned prometheus.Counter
}

// New creates and registers all metrics against the given registerer. main
// passes prometheus.DefaultRegisterer; tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CounterEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "counter_events_total",
				Help: "Counter webhook events by relation and outcome",
			},
			[]string{"relation", "outcome"},
		),
		FanoutRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_fanout_requests_total",
				Help: "Notify fanout requests by outcome",
			},
			[]string{"outcome"},
		),
		FanoutRecipients: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notification_fanout_recipients_total",
				Help: "Total notification rows inserted by fanout",
			},
		),
		PushDispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "push_dispatches_total",
				Help: "Push dispatch webhook invocations by outcome",
			},
			[]string{"outcome"},
		),
		PushMessagesSent: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "push_messages_sent_total",
				Help: "Total push messages submitted to the gateway",
			},
		),
		PushTokensPruned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "push_tokens_pruned_total",
				Help: "Total push tokens deleted after DeviceNotRegistered receipts",
			},
		),
	}
}
