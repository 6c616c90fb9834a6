package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	reservationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reservations_created_total",
		Help: "Reservations created against offers.",
	})

	reservationsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reservations_cancelled_total",
		Help: "Reservations cancelled by the requester.",
	})

	admissionRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reservation_admission_rejected_total",
		Help: "Reservation attempts rejected by the per-user active cap.",
	})
)

func init() {
	register(reservationsCreated, reservationsCancelled, admissionRejected)
}

func IncReservationCreated()   { reservationsCreated.Inc() }
func IncReservationCancelled() { reservationsCancelled.Inc() }
func IncAdmissionRejected()    { admissionRejected.Inc() }
