// Package metrics exposes Prometheus counters for the relay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedshare_rooms_created_total",
		Help: "Rooms created through the directory.",
	})
	RoomsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedshare_rooms_ended_total",
		Help: "Rooms explicitly deleted from the directory.",
	})
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedshare_messages_relayed_total",
		Help: "Text messages fanned out to room peers.",
	})
	FilesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speedshare_files_relayed_total",
		Help: "File transfers fanned out to room peers.",
	})
	RelayConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speedshare_relay_connections",
		Help: "Currently open relay connections.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
