package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo", Name: "orders_created_total", Help: "Total orders created",
	})
	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "order_transitions_total", Help: "Successful order status transitions"},
		[]string{"to"},
	)
	TransitionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "order_transition_conflicts_total", Help: "Order transitions rejected by the conditional update"},
		[]string{"to"},
	)
	DistanceFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo", Name: "distance_fallbacks_total", Help: "Distance lookups that fell back to haversine",
	})
	RatingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo", Name: "ratings_created_total", Help: "Total ratings created",
	})
	DriverLocationUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo", Name: "driver_location_updates_total", Help: "Driver position reports accepted",
	})
)
