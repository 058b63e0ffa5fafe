package auction

import (
	"context"
	"fmt"
	"slices"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/service/analytics"
)

// Snapshot assembles the heartbeat view for a game server. The reads are
// independent, so the parts may reflect slightly different moments.
func (s *AuctionService) Snapshot(ctx context.Context, participantIDs []int64) (entity.Snapshot, error) {
	listings, err := s.listings.ListAll(ctx)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("listings.ListAll: %w", err)
	}

	history, err := s.claims.BySellers(ctx, participantIDs)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("claims.BySellers: %w", err)
	}

	recent, err := s.claims.Recent(ctx, s.window)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("claims.Recent: %w", err)
	}

	return entity.Snapshot{
		TotalCount:     s.counter.Load(),
		Catalog:        analytics.BuildCatalog(slices.Values(listings)),
		SellerHistory:  analytics.SellerHistory(participantIDs, slices.Values(history)),
		PurchaseTrends: analytics.Trends(slices.Values(recent)),
		Rap:            analytics.Rap(slices.Values(recent)),
	}, nil
}

// Rap returns the running average prices over the recent window.
func (s *AuctionService) Rap(ctx context.Context) ([]entity.RapEntry, error) {
	recent, err := s.claims.Recent(ctx, s.window)
	if err != nil {
		return nil, fmt.Errorf("claims.Recent: %w", err)
	}

	return analytics.Rap(slices.Values(recent)), nil
}
