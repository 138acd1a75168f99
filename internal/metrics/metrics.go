// Package metrics exposes Prometheus counters for the portal.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesSent counts delivered messages by kind ("direct" or "bulk").
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "messages_sent_total",
		Help:      "Messages delivered, labeled by send kind.",
	}, []string{"kind"})

	// SignIns counts successful auth callbacks.
	SignIns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "sign_ins_total",
		Help:      "Successful sign-in callbacks.",
	})

	// StoreDegraded is 1 while the service runs without a database.
	StoreDegraded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "portal",
		Name:      "store_degraded",
		Help:      "1 when the MySQL store is unavailable and reads return empty.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
