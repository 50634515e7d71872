// Package metrics exposes Prometheus instruments for the price graph.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pricegraph_polls_total", Help: "Producer calls made by pollers"},
		[]string{"poller"},
	)
	PollFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pricegraph_poll_failures_total", Help: "Producer calls that returned an error"},
		[]string{"poller"},
	)
	Pollers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "pricegraph_pollers", Help: "Live pollers held by each cache"},
		[]string{"cache"},
	)
	KnownPrices = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "pricegraph_known_prices", Help: "Watched assets with a known price"},
	)
)

func init() {
	prometheus.MustRegister(PollsTotal, PollFailuresTotal, Pollers, KnownPrices)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
