package persistence

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/value"
)

// listingSchema: строка таблицы listings.
type listingSchema struct {
	ID                string          `db:"id"`
	SellerID          int64           `db:"seller_id"`
	Price             decimal.Decimal `db:"price"`
	Quantity          int             `db:"quantity"`
	RemainingLifetime int64           `db:"remaining_lifetime"`
	ItemID            string          `db:"item_id"`
	ItemClass         string          `db:"item_class"`
	CreatedAt         time.Time       `db:"created_at"`
}

func fromListing(l entity.Listing) listingSchema {
	return listingSchema{
		ID:                l.ID.String(),
		SellerID:          l.SellerID,
		Price:             l.Price,
		Quantity:          l.Quantity,
		RemainingLifetime: l.RemainingLifetime,
		ItemID:            l.ItemID,
		ItemClass:         l.ItemClass,
		CreatedAt:         l.CreatedAt,
	}
}

func (s listingSchema) toDomain() entity.Listing {
	return entity.Listing{
		ID:                value.ListingID(s.ID),
		SellerID:          s.SellerID,
		Price:             s.Price,
		Quantity:          s.Quantity,
		RemainingLifetime: s.RemainingLifetime,
		ItemID:            s.ItemID,
		ItemClass:         s.ItemClass,
		CreatedAt:         s.CreatedAt,
	}
}

// claimSchema: строка таблицы claims.
type claimSchema struct {
	ID                string          `db:"id"`
	SellerID          int64           `db:"seller_id"`
	BuyerID           sql.NullInt64   `db:"buyer_id"`
	Price             decimal.Decimal `db:"price"`
	Quantity          int             `db:"quantity"`
	RemainingLifetime int64           `db:"remaining_lifetime"`
	ItemID            string          `db:"item_id"`
	ItemClass         string          `db:"item_class"`
	Reason            string          `db:"reason"`
	CompletedAt       time.Time       `db:"completed_at"`
}

func fromClaim(c entity.ClaimRecord) claimSchema {
	s := claimSchema{
		ID:                c.ID.String(),
		SellerID:          c.SellerID,
		Price:             c.Price,
		Quantity:          c.Quantity,
		RemainingLifetime: c.RemainingLifetime,
		ItemID:            c.ItemID,
		ItemClass:         c.ItemClass,
		Reason:            string(c.Reason),
		CompletedAt:       c.CompletedAt,
	}

	if c.BuyerID != nil {
		s.BuyerID = sql.NullInt64{Int64: *c.BuyerID, Valid: true}
	}

	return s
}

func (s claimSchema) toDomain() entity.ClaimRecord {
	c := entity.ClaimRecord{
		ID:                value.ListingID(s.ID),
		SellerID:          s.SellerID,
		Price:             s.Price,
		Quantity:          s.Quantity,
		RemainingLifetime: s.RemainingLifetime,
		ItemID:            s.ItemID,
		ItemClass:         s.ItemClass,
		Reason:            entity.ClaimReason(s.Reason),
		CompletedAt:       s.CompletedAt,
	}

	if s.BuyerID.Valid {
		buyerID := s.BuyerID.Int64
		c.BuyerID = &buyerID
	}

	return c
}

const (
	listingColumns = `id, seller_id, price, quantity, remaining_lifetime, item_id, item_class, created_at`
	claimColumns   = `id, seller_id, buyer_id, price, quantity, remaining_lifetime, item_id, item_class, reason, completed_at`
)
