package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/service/counter"
	"auction_house/internal/metrics"
)

func TestRecorder(t *testing.T) {
	rq := require.New(t)

	cnt := counter.New(3)
	rec := metrics.NewRecorder(cnt.Load)

	rec.ListingCreated()
	rec.ListingCreated()
	rec.ListingCancelled()
	rec.ListingClaimed(entity.ClaimPurchased)
	rec.ListingClaimed(entity.ClaimExpired)
	rec.ListingClaimed(entity.ClaimExpired)
	rec.ObserveTick(10 * time.Millisecond)
	rec.TickSkipped()

	expected := `
# HELP auction_house_active_listings Advisory number of active listings.
# TYPE auction_house_active_listings gauge
auction_house_active_listings 3
# HELP auction_house_claims_total Listings moved to the claim ledger, by reason.
# TYPE auction_house_claims_total counter
auction_house_claims_total{reason="expired"} 2
auction_house_claims_total{reason="purchased"} 1
# HELP auction_house_listings_created_total Listings put up for sale.
# TYPE auction_house_listings_created_total counter
auction_house_listings_created_total 2
`

	rq.NoError(testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"auction_house_active_listings",
		"auction_house_claims_total",
		"auction_house_listings_created_total",
	))

	cnt.Add(2)

	rq.NoError(testutil.GatherAndCompare(rec.Registry(), strings.NewReader(`
# HELP auction_house_active_listings Advisory number of active listings.
# TYPE auction_house_active_listings gauge
auction_house_active_listings 5
`), "auction_house_active_listings"))

	n, err := testutil.GatherAndCount(rec.Registry(), "auction_house_reaper_tick_duration_seconds")
	rq.NoError(err)
	rq.Equal(1, n)
}
