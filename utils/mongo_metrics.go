package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

var (
	MongoConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_pool_connections",
			Help: "Open connections in the MongoDB driver pool",
		},
	)

	MongoConnectionsCheckedOut = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_pool_checked_out",
			Help: "MongoDB connections currently checked out by operations",
		},
	)

	MongoPoolEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_pool_events_total",
			Help: "MongoDB pool events by type",
		},
		[]string{"type"},
	)
)

// MongoPoolMonitor feeds driver pool events into the connection gauges.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			MongoPoolEvents.WithLabelValues(evt.Type).Inc()
			switch evt.Type {
			case event.ConnectionCreated:
				MongoConnections.Inc()
			case event.ConnectionClosed:
				MongoConnections.Dec()
			case event.GetSucceeded:
				MongoConnectionsCheckedOut.Inc()
			case event.ConnectionReturned:
				MongoConnectionsCheckedOut.Dec()
			}
		},
	}
}
