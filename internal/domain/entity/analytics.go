package entity

import (
	"github.com/shopspring/decimal"

	"auction_house/internal/domain/value"
)

// Catalog maps itemClass -> itemID -> active listings, each bucket ordered by price.
type Catalog map[string]map[string][]Listing

type Trend int

const (
	TrendFalling Trend = -1
	TrendFlat    Trend = 0
	TrendRising  Trend = 1
)

// TrendEntry compares a claim's price against the average of the same item's more recent claims.
type TrendEntry struct {
	ID        value.ListingID
	ItemID    string
	ItemClass string
	Price     decimal.Decimal
	Trend     Trend
}

// RapEntry is the running average price of an item over the analytics window.
type RapEntry struct {
	ItemClass    string
	ItemID       string
	AveragePrice decimal.Decimal
}

// Snapshot is the heartbeat view sent back to a game server.
type Snapshot struct {
	TotalCount     int64
	Catalog        Catalog
	SellerHistory  map[int64][]ClaimRecord
	PurchaseTrends []TrendEntry
	Rap            []RapEntry
}
