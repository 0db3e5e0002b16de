package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the collector's registry in the Prometheus text format.
func Handler(c *Collector) http.Handler {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.refreshSystemGauges()
		h.ServeHTTP(w, r)
	})
}
