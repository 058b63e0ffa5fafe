package entity

import "github.com/shopspring/decimal"

// NewListing is what a seller supplies when putting an item up for sale.
type NewListing struct {
	SellerID  int64
	Price     decimal.Decimal
	Quantity  int
	Lifetime  int64
	ItemID    string
	ItemClass string
}
