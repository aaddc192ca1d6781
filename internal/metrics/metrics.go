package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed at checkout",
	})

	CheckoutFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts that were rejected",
	}, []string{"reason"})

	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions that committed",
	}, []string{"to"})
)

func Register() {
	prometheus.MustRegister(OrdersPlaced, CheckoutFailures, StatusTransitions)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
