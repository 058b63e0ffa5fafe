// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "github.com/shopspring/decimal"

// Error Модель ошибок
type Error struct {
	Success bool `json:"success"`

	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string

type Listing struct {
	UID       string          `json:"uid"`
	SellerID  int64           `json:"sellerId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Length    int64           `json:"length"`
	ItemID    string          `json:"itemId"`
	ItemClass string          `json:"itemClass"`
}

type ClaimedAuction struct {
	UID         string          `json:"uid"`
	SellerID    int64           `json:"sellerId"`
	BuyerID     *int64          `json:"buyerId,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ItemID      string          `json:"itemId"`
	ItemClass   string          `json:"itemClass"`
	Reason      string          `json:"reason"`
	CompletedAt int64           `json:"time"` // unix ms
}

type PurchaseHistoryEntry struct {
	UID       string          `json:"uid"`
	ItemID    string          `json:"itemId"`
	ItemClass string          `json:"itemClass"`
	Price     decimal.Decimal `json:"price"`
	Trend     int             `json:"trend"`
}

// DataCache itemClass -> itemId -> лоты
type DataCache map[string]map[string][]Listing

// RapCache itemClass -> itemId -> средняя цена
type RapCache map[string]map[string]decimal.Decimal

type CountResponse struct {
	Success           bool  `json:"success"`
	TotalAuctionCount int64 `json:"totalAuctionCount"`
}

type ConnectResponse struct {
	Success           bool   `json:"success"`
	TotalAuctionCount int64  `json:"totalAuctionCount"`
	Secret            string `json:"secret"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type HeartbeatRequest struct {
	PlayerIDs []int64 `json:"playerIds" validate:"required"`
}

type HeartbeatResponse struct {
	Success           bool                   `json:"success"`
	TotalAuctionCount int64                  `json:"totalAuctionCount"`
	ClaimedAuctions   []ClaimedAuction       `json:"claimedAuctions"`
	DataCache         DataCache              `json:"dataCache"`
	PurchaseHistory   []PurchaseHistoryEntry `json:"purchaseHistory"`
	RapCache          RapCache               `json:"rapCache"`
}

type CreateAuctionRequest struct {
	SellerID  int64               `json:"sellerId" validate:"required"`
	Price     decimal.NullDecimal `json:"price" validate:"required"`
	Quantity  int                 `json:"quantity"`
	Length    int64               `json:"length"`
	ItemID    string              `json:"itemId"`
	ItemClass string              `json:"itemClass"`
}

type CreateAuctionResponse struct {
	Success           bool   `json:"success"`
	UID               string `json:"uid"`
	TotalAuctionCount int64  `json:"totalAuctionCount"`
}

type PurchaseRequest struct {
	BuyerID   int64               `json:"buyerId" validate:"required"`
	BuyerCash decimal.NullDecimal `json:"buyerCash" validate:"required"`
	ItemUID   string              `json:"itemUid" validate:"required"`
}

type PurchaseResponse struct {
	Success           bool            `json:"success"`
	TotalAuctionCount int64           `json:"totalAuctionCount"`
	ItemClass         string          `json:"itemClass"`
	ItemID            string          `json:"itemId"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
}

// OwnerRequest: cancel и extend
type OwnerRequest struct {
	PlayerID int64  `json:"playerId" validate:"required"`
	ItemUID  string `json:"itemUid" validate:"required"`
}
