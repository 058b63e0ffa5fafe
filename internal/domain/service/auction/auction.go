package auction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"auction_house/internal/domain"
	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/service/analytics"
	"auction_house/internal/domain/service/counter"
	"auction_house/internal/domain/value"
	"auction_house/pkg/errcodes"
	"auction_house/pkg/logx"
)

const defaultExtendDelta = 24 * time.Hour

type ListingStore interface {
	Create(ctx context.Context, listing entity.Listing) error
	// Purchase removes the listing and appends its claim in one atomic step.
	// The listing must exist, must not belong to buyerID and must cost no more
	// than cash; otherwise nothing changes.
	Purchase(ctx context.Context, id value.ListingID, buyerID int64, cash decimal.Decimal, at time.Time) (entity.ClaimRecord, error)
	Cancel(ctx context.Context, id value.ListingID, sellerID int64) (entity.Listing, error)
	Extend(ctx context.Context, id value.ListingID, sellerID int64, deltaSeconds int64) error
	ListAll(ctx context.Context) ([]entity.Listing, error)
	Count(ctx context.Context) (int64, error)
}

type ClaimLedger interface {
	Recent(ctx context.Context, limit int) ([]entity.ClaimRecord, error)
	BySellers(ctx context.Context, sellerIDs []int64) ([]entity.ClaimRecord, error)
}

type Metrics interface {
	ListingCreated()
	ListingCancelled()
	ListingClaimed(reason entity.ClaimReason)
}

type AuctionService struct {
	listings    ListingStore
	claims      ClaimLedger
	counter     *counter.Counter
	metrics     Metrics
	sales       chan<- entity.ClaimRecord
	extendDelta time.Duration
	window      int
	now         func() time.Time
}

func NewAuctionService(
	listings ListingStore,
	claims ClaimLedger,
	counter *counter.Counter,
) *AuctionService {
	return &AuctionService{
		listings:    listings,
		claims:      claims,
		counter:     counter,
		metrics:     nopMetrics{},
		extendDelta: defaultExtendDelta,
		window:      analytics.DefaultWindow,
		now:         time.Now,
	}
}

func (s *AuctionService) WithExtendDelta(d time.Duration) *AuctionService {
	s.extendDelta = d
	return s
}

// WithWindow sets how many recent claims feed trends and RAP.
func (s *AuctionService) WithWindow(n int) *AuctionService {
	if n > 0 {
		s.window = n
	}
	return s
}

func (s *AuctionService) WithMetrics(m Metrics) *AuctionService {
	s.metrics = m
	return s
}

// WithSales publishes every completed purchase to ch. Sends never block:
// when ch is full the sale is dropped from the feed.
func (s *AuctionService) WithSales(ch chan<- entity.ClaimRecord) *AuctionService {
	s.sales = ch
	return s
}

func (s *AuctionService) WithClock(now func() time.Time) *AuctionService {
	s.now = now
	return s
}

// Count returns the advisory number of active listings.
func (s *AuctionService) Count() int64 {
	return s.counter.Load()
}

// Create lists a new item and returns its id with the updated count.
func (s *AuctionService) Create(ctx context.Context, in entity.NewListing) (value.ListingID, int64, error) {
	if err := validateNewListing(in); err != nil {
		return "", 0, err
	}

	id, err := value.NewListingID()
	if err != nil {
		return "", 0, domain.WrapError(err, errcodes.InternalServerError, "failed to generate listing id")
	}

	listing := entity.Listing{
		ID:                id,
		SellerID:          in.SellerID,
		Price:             in.Price,
		Quantity:          in.Quantity,
		RemainingLifetime: in.Lifetime,
		ItemID:            in.ItemID,
		ItemClass:         in.ItemClass,
		CreatedAt:         s.now(),
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return "", 0, fmt.Errorf("listings.Create: %w", err)
	}

	count := s.counter.Inc()
	s.metrics.ListingCreated()

	logger(ctx).Info("listing created",
		slog.String(logx.FieldListingID, id.String()),
		slog.Int64(logx.FieldSellerID, in.SellerID),
		slog.String(logx.FieldItemClass, in.ItemClass),
		slog.String(logx.FieldItemID, in.ItemID),
	)

	return id, count, nil
}

// Purchase claims a listing for buyerID. A listing owned by the buyer is
// reported exactly like a missing one.
func (s *AuctionService) Purchase(ctx context.Context, id value.ListingID, buyerID int64, cash decimal.Decimal) (entity.ClaimRecord, int64, error) {
	if buyerID == 0 {
		return entity.ClaimRecord{}, 0, domain.NewError(errcodes.ValidationError, "buyer id is required")
	}

	if cash.IsNegative() {
		return entity.ClaimRecord{}, 0, domain.NewError(errcodes.ValidationError, "buyer cash must not be negative")
	}

	claim, err := s.listings.Purchase(ctx, id, buyerID, cash, s.now())
	if err != nil {
		return entity.ClaimRecord{}, 0, fmt.Errorf("listings.Purchase: %w", err)
	}

	count := s.counter.Dec()
	s.metrics.ListingClaimed(entity.ClaimPurchased)
	s.publishSale(ctx, claim)

	logger(ctx).Info("listing purchased",
		slog.String(logx.FieldListingID, id.String()),
		slog.Int64(logx.FieldSellerID, claim.SellerID),
		slog.Int64(logx.FieldBuyerID, buyerID),
	)

	return claim, count, nil
}

// Cancel withdraws a listing owned by sellerID.
func (s *AuctionService) Cancel(ctx context.Context, id value.ListingID, sellerID int64) (entity.Listing, int64, error) {
	if sellerID == 0 {
		return entity.Listing{}, 0, domain.NewError(errcodes.ValidationError, "seller id is required")
	}

	listing, err := s.listings.Cancel(ctx, id, sellerID)
	if err != nil {
		return entity.Listing{}, 0, fmt.Errorf("listings.Cancel: %w", err)
	}

	count := s.counter.Dec()
	s.metrics.ListingCancelled()

	logger(ctx).Info("listing cancelled",
		slog.String(logx.FieldListingID, id.String()),
		slog.Int64(logx.FieldSellerID, sellerID),
	)

	return listing, count, nil
}

// Extend prolongs a listing owned by sellerID by the configured delta.
func (s *AuctionService) Extend(ctx context.Context, id value.ListingID, sellerID int64) (int64, error) {
	if sellerID == 0 {
		return 0, domain.NewError(errcodes.ValidationError, "seller id is required")
	}

	if err := s.listings.Extend(ctx, id, sellerID, int64(s.extendDelta/time.Second)); err != nil {
		return 0, fmt.Errorf("listings.Extend: %w", err)
	}

	return s.counter.Load(), nil
}

func (s *AuctionService) publishSale(ctx context.Context, claim entity.ClaimRecord) {
	if s.sales == nil {
		return
	}

	select {
	case s.sales <- claim:
	default:
		logger(ctx).Warn("sales feed is full, dropping sale", slog.String(logx.FieldListingID, claim.ID.String()))
	}
}

func validateNewListing(in entity.NewListing) error {
	switch {
	case in.SellerID == 0:
		return domain.NewError(errcodes.ValidationError, "seller id is required")
	case in.Price.IsNegative():
		return domain.NewError(errcodes.InvalidPrice, "price must not be negative")
	case in.Quantity < 1:
		return domain.NewError(errcodes.InvalidQuantity, "quantity must be at least 1")
	case in.Lifetime <= 0:
		return domain.NewError(errcodes.InvalidLifetime, "lifetime must be positive")
	case in.ItemID == "" || in.ItemClass == "":
		return domain.NewError(errcodes.InvalidItem, "item id and item class are required")
	}

	return nil
}

type nopMetrics struct{}

func (nopMetrics) ListingCreated()                     {}
func (nopMetrics) ListingCancelled()                   {}
func (nopMetrics) ListingClaimed(_ entity.ClaimReason) {}
