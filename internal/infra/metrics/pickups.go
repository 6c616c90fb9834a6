package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	pickupsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickups_completed_total",
		Help: "Code-verified handoffs completed.",
	})

	pickupsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickups_failed_total",
		Help: "Handoff attempts explicitly recorded as failed.",
	})

	wrongCodeAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_wrong_code_attempts_total",
		Help: "Pickup confirmations rejected because the code did not match.",
	})
)

func init() {
	register(pickupsCompleted, pickupsFailed, wrongCodeAttempts)
}

func IncPickupCompleted()  { pickupsCompleted.Inc() }
func IncPickupFailed()     { pickupsFailed.Inc() }
func IncWrongCodeAttempt() { wrongCodeAttempts.Inc() }
