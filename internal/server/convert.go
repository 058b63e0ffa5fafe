package server

import (
	"github.com/shopspring/decimal"

	"auction_house/internal/domain/entity"
	"auction_house/pkg/lox"
	"auction_house/pkg/rest"
)

func newDomainListing(request rest.CreateAuctionRequest) entity.NewListing {
	return entity.NewListing{
		SellerID:  request.SellerID,
		Price:     request.Price.Decimal,
		Quantity:  request.Quantity,
		Lifetime:  request.Length,
		ItemID:    request.ItemID,
		ItemClass: request.ItemClass,
	}
}

func newRESTListing(listing entity.Listing) rest.Listing {
	return rest.Listing{
		UID:       listing.ID.String(),
		SellerID:  listing.SellerID,
		Price:     listing.Price,
		Quantity:  listing.Quantity,
		Length:    listing.RemainingLifetime,
		ItemID:    listing.ItemID,
		ItemClass: listing.ItemClass,
	}
}

func newRESTClaim(claim entity.ClaimRecord) rest.ClaimedAuction {
	return rest.ClaimedAuction{
		UID:         claim.ID.String(),
		SellerID:    claim.SellerID,
		BuyerID:     claim.BuyerID,
		Price:       claim.Price,
		Quantity:    claim.Quantity,
		ItemID:      claim.ItemID,
		ItemClass:   claim.ItemClass,
		Reason:      string(claim.Reason),
		CompletedAt: claim.CompletedAt.UnixMilli(),
	}
}

func newRESTTrend(t entity.TrendEntry) rest.PurchaseHistoryEntry {
	return rest.PurchaseHistoryEntry{
		UID:       t.ID.String(),
		ItemID:    t.ItemID,
		ItemClass: t.ItemClass,
		Price:     t.Price,
		Trend:     int(t.Trend),
	}
}

func newRESTDataCache(catalog entity.Catalog) rest.DataCache {
	cache := make(rest.DataCache, len(catalog))

	for class, items := range catalog {
		cache[class] = make(map[string][]rest.Listing, len(items))

		for itemID, listings := range items {
			cache[class][itemID] = lox.Map(listings, newRESTListing)
		}
	}

	return cache
}

func newRESTRapCache(entries []entity.RapEntry) rest.RapCache {
	cache := make(rest.RapCache)

	for _, e := range entries {
		if _, ok := cache[e.ItemClass]; !ok {
			cache[e.ItemClass] = make(map[string]decimal.Decimal)
		}

		cache[e.ItemClass][e.ItemID] = e.AveragePrice
	}

	return cache
}

// newRESTHeartbeat раскладывает продажи участников плоским списком в порядке playerIds.
func newRESTHeartbeat(snapshot entity.Snapshot, playerIDs []int64) rest.HeartbeatResponse {
	claimed := make([]rest.ClaimedAuction, 0)
	seen := make(map[int64]struct{}, len(playerIDs))

	for _, id := range playerIDs {
		// повтор id в запросе не должен дублировать продажи
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		claimed = append(claimed, lox.Map(snapshot.SellerHistory[id], newRESTClaim)...)
	}

	return rest.HeartbeatResponse{
		Success:           true,
		TotalAuctionCount: snapshot.TotalCount,
		ClaimedAuctions:   claimed,
		DataCache:         newRESTDataCache(snapshot.Catalog),
		PurchaseHistory:   lox.Map(snapshot.PurchaseTrends, newRESTTrend),
		RapCache:          newRESTRapCache(snapshot.Rap),
	}
}
