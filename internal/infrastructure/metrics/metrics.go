package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RefreshPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "price_refresh_passes_total",
		Help: "Total number of completed price refresh passes",
	})

	OraclePublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_publishes_total",
		Help: "Total number of simulated on-chain price publications",
	}, []string{"network"})

	TradesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trades_executed_total",
		Help: "Total number of recorded trades",
	}, []string{"side"})

	QuoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_failures_total",
		Help: "Total number of venue quote requests that returned no quote",
	}, []string{"venue"})

	TicksPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broker_ticks_published_total",
		Help: "Total number of commodity ticks published to the broker",
	})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
