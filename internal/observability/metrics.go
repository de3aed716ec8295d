// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BidsAccepted counts bids that passed the ledger's acceptance check.
	BidsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_bids_accepted_total",
		Help: "Total number of accepted bids",
	})

	// BidsRejected counts bid attempts turned away, by reason.
	BidsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_bids_rejected_total",
		Help: "Total number of rejected bid attempts by reason",
	}, []string{"reason"})

	// SearchLatency records auction search latency by sort key.
	SearchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gavel_search_latency_seconds",
		Help:    "Auction search latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"sort"})

	// AuctionsCreated counts successfully created auctions.
	AuctionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_auctions_created_total",
		Help: "Total number of created auctions",
	})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})
)

// ObserveSearch records one search round trip for the given sort key.
func ObserveSearch(sort string, start time.Time) {
	SearchLatency.WithLabelValues(sort).Observe(time.Since(start).Seconds())
}
