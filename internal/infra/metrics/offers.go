package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	offersPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offers_published_total",
		Help: "Offers moved from draft to available.",
	})

	offersPickedUp = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offers_picked_up_total",
		Help: "Offers whose handoff was completed.",
	})

	offersRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offers_removed_total",
		Help: "Offers withdrawn by their provider.",
	})
)

func init() {
	register(offersPublished, offersPickedUp, offersRemoved)
}

func IncOfferPublished() { offersPublished.Inc() }
func IncOfferPickedUp()  { offersPickedUp.Inc() }
func IncOfferRemoved()   { offersRemoved.Inc() }
