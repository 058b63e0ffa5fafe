package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"auction_house/internal/domain/value"
)

// Listing is an active, unsold auction.
type Listing struct {
	ID                value.ListingID `json:"uid"`
	SellerID          int64           `json:"seller_id"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	RemainingLifetime int64           `json:"length"` // секунды до истечения
	ItemID            string          `json:"item_id"`
	ItemClass         string          `json:"item_class"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (l Listing) Key() value.ItemKey {
	return value.ItemKey{ItemClass: l.ItemClass, ItemID: l.ItemID}
}

// Expired reports whether the reaper should migrate the listing.
func (l Listing) Expired() bool {
	return l.RemainingLifetime <= 0
}
