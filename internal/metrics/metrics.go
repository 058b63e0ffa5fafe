// Package metrics records auction activity in a dedicated Prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"auction_house/internal/domain/entity"
)

const namespace = "auction_house"

type Recorder struct {
	registry *prometheus.Registry

	listingsCreated   prometheus.Counter
	listingsCancelled prometheus.Counter
	claims            *prometheus.CounterVec
	reaperTick        prometheus.Histogram
	reaperSkipped     prometheus.Counter
	expireFailed      prometheus.Counter
}

// NewRecorder registers every collector plus an active listings gauge read
// from activeListings on scrape.
func NewRecorder(activeListings func() int64) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		listingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Listings put up for sale.",
		}),
		listingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_cancelled_total",
			Help:      "Listings withdrawn by their sellers.",
		}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Listings moved to the claim ledger, by reason.",
		}, []string{"reason"}),
		reaperTick: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "tick_duration_seconds",
			Help:      "Duration of reaper ticks.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		reaperSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "ticks_skipped_total",
			Help:      "Ticks skipped because another tick held the slot.",
		}),
		expireFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "expire_failures_total",
			Help:      "Expired listings that failed to migrate and wait for the next tick.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.listingsCreated,
		r.listingsCancelled,
		r.claims,
		r.reaperTick,
		r.reaperSkipped,
		r.expireFailed,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_listings",
			Help:      "Advisory number of active listings.",
		}, func() float64 { return float64(activeListings()) }),
	)

	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ListingCreated() {
	r.listingsCreated.Inc()
}

func (r *Recorder) ListingCancelled() {
	r.listingsCancelled.Inc()
}

func (r *Recorder) ListingClaimed(reason entity.ClaimReason) {
	r.claims.WithLabelValues(string(reason)).Inc()
}

func (r *Recorder) ObserveTick(d time.Duration) {
	r.reaperTick.Observe(d.Seconds())
}

func (r *Recorder) TickSkipped() {
	r.reaperSkipped.Inc()
}

func (r *Recorder) ExpireFailed() {
	r.expireFailed.Inc()
}
