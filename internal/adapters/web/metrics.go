package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radiator_stock_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	salesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radiator_stock_sales_created_total",
		Help: "Successfully created sales.",
	})

	salesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radiator_stock_sales_failed_total",
		Help: "Failed sale creations by failure code.",
	}, []string{"reason"})

	stockUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radiator_stock_manual_updates_total",
		Help: "Manual stock overrides applied.",
	})
)
