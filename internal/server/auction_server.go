package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/value"
	"auction_house/pkg/errcodes"
	"auction_house/pkg/httpx/reply"
	"auction_house/pkg/httpx/req"
	"auction_house/pkg/rest"
)

type auctionService interface {
	Create(context.Context, entity.NewListing) (value.ListingID, int64, error)
	Purchase(context.Context, value.ListingID, int64, decimal.Decimal) (entity.ClaimRecord, int64, error)
	Cancel(context.Context, value.ListingID, int64) (entity.Listing, int64, error)
	Extend(context.Context, value.ListingID, int64) (int64, error)
	Snapshot(context.Context, []int64) (entity.Snapshot, error)
	Count() int64
}

type AuctionServer struct {
	auctionService auctionService
}

func NewAuctionServer(auctionService auctionService) AuctionServer {
	return AuctionServer{
		auctionService: auctionService,
	}
}

func (s AuctionServer) getRoot(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Nothing to see here."))

	return nil
}

func (s AuctionServer) getV1AuctionsCount(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.CountResponse{
		Success:           true,
		TotalAuctionCount: s.auctionService.Count(),
	})

	return nil
}

func (s AuctionServer) postV1Heartbeat(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.HeartbeatRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	snapshot, err := s.auctionService.Snapshot(ctx, request.PlayerIDs)
	if err != nil {
		return fmt.Errorf("auctionService.Snapshot: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTHeartbeat(snapshot, request.PlayerIDs))

	return nil
}

func (s AuctionServer) postV1Auctions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateAuctionRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	id, count, err := s.auctionService.Create(ctx, newDomainListing(request))
	if err != nil {
		return fmt.Errorf("auctionService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CreateAuctionResponse{
		Success:           true,
		UID:               id.String(),
		TotalAuctionCount: count,
	})

	return nil
}

func (s AuctionServer) postV1AuctionsPurchase(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PurchaseRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	id, err := parseListingID(request.ItemUID)
	if err != nil {
		return err
	}

	claim, count, err := s.auctionService.Purchase(ctx, id, request.BuyerID, request.BuyerCash.Decimal)
	if err != nil {
		return fmt.Errorf("auctionService.Purchase: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PurchaseResponse{
		Success:           true,
		TotalAuctionCount: count,
		ItemClass:         claim.ItemClass,
		ItemID:            claim.ItemID,
		Price:             claim.Price,
		Quantity:          claim.Quantity,
	})

	return nil
}

func (s AuctionServer) postV1AuctionsCancel(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.OwnerRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	id, err := parseListingID(request.ItemUID)
	if err != nil {
		return err
	}

	_, count, err := s.auctionService.Cancel(ctx, id, request.PlayerID)
	if err != nil {
		return fmt.Errorf("auctionService.Cancel: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CountResponse{
		Success:           true,
		TotalAuctionCount: count,
	})

	return nil
}

func (s AuctionServer) postV1AuctionsExtend(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.OwnerRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	id, err := parseListingID(request.ItemUID)
	if err != nil {
		return err
	}

	count, err := s.auctionService.Extend(ctx, id, request.PlayerID)
	if err != nil {
		return fmt.Errorf("auctionService.Extend: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CountResponse{
		Success:           true,
		TotalAuctionCount: count,
	})

	return nil
}

func parseListingID(s string) (value.ListingID, error) {
	id, err := value.ParseListingID(s)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseListingID: %w", err),
			failure.WithCode(errcodes.InvalidListingID),
		)
	}

	return id, nil
}
