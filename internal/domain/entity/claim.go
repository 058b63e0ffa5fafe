package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"auction_house/internal/domain/value"
)

type ClaimReason string

const (
	ClaimPurchased ClaimReason = "purchased"
	ClaimExpired   ClaimReason = "expired"
)

// ClaimRecord is a listing that left the active store by purchase or expiry.
// Records are immutable once written.
type ClaimRecord struct {
	ID                value.ListingID `json:"uid"`
	SellerID          int64           `json:"seller_id"`
	BuyerID           *int64          `json:"buyer_id,omitempty"` // nil для истёкших лотов
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	RemainingLifetime int64           `json:"length"`
	ItemID            string          `json:"item_id"`
	ItemClass         string          `json:"item_class"`
	Reason            ClaimReason     `json:"reason"`
	CompletedAt       time.Time       `json:"completed_at"`
}

func (c ClaimRecord) Key() value.ItemKey {
	return value.ItemKey{ItemClass: c.ItemClass, ItemID: c.ItemID}
}

// NewClaimRecord freezes a listing into a claim. buyerID is nil on expiry.
func NewClaimRecord(l Listing, buyerID *int64, completedAt time.Time) ClaimRecord {
	reason := ClaimExpired
	if buyerID != nil {
		reason = ClaimPurchased
	}

	return ClaimRecord{
		ID:                l.ID,
		SellerID:          l.SellerID,
		BuyerID:           buyerID,
		Price:             l.Price,
		Quantity:          l.Quantity,
		RemainingLifetime: l.RemainingLifetime,
		ItemID:            l.ItemID,
		ItemClass:         l.ItemClass,
		Reason:            reason,
		CompletedAt:       completedAt,
	}
}
