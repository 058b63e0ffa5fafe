package errcodes

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
)

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	Unauthorized        failure.ErrorCode = "Unauthorized"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	StorageUnavailable  failure.ErrorCode = "StorageUnavailable"

	// Auction
	ListingNotFound   failure.ErrorCode = "ListingNotFound"   // нет лота или предикат владельца не совпал
	InvalidListingID  failure.ErrorCode = "InvalidListingID"  // пришел мусор вместо id
	InvalidPrice      failure.ErrorCode = "InvalidPrice"      // цена < 0
	InvalidQuantity   failure.ErrorCode = "InvalidQuantity"   // количество < 1
	InvalidLifetime   failure.ErrorCode = "InvalidLifetime"   // срок жизни <= 0
	InvalidItem       failure.ErrorCode = "InvalidItem"       // пустые itemId / itemClass
	InsufficientFunds failure.ErrorCode = "InsufficientFunds" // у покупателя не хватает денег

	// Sessions
	SessionAlreadyConnected failure.ErrorCode = "SessionAlreadyConnected"
	SessionNotFound         failure.ErrorCode = "SessionNotFound"
)

//nolint:gochecknoglobals
var httpStatuses = map[failure.ErrorCode]int{
	InternalServerError:     http.StatusInternalServerError,
	TimeoutExceeded:         http.StatusGatewayTimeout,
	Forbidden:               http.StatusForbidden,
	Unauthorized:            http.StatusUnauthorized,
	ValidationError:         http.StatusBadRequest,
	NotFound:                http.StatusNotFound,
	StorageUnavailable:      http.StatusServiceUnavailable,
	ListingNotFound:         http.StatusNotFound,
	InvalidListingID:        http.StatusBadRequest,
	InvalidPrice:            http.StatusBadRequest,
	InvalidQuantity:         http.StatusBadRequest,
	InvalidLifetime:         http.StatusBadRequest,
	InvalidItem:             http.StatusBadRequest,
	InsufficientFunds:       http.StatusPaymentRequired,
	SessionAlreadyConnected: http.StatusConflict,
	SessionNotFound:         http.StatusBadRequest,
}

// HTTPStatus maps a code to its response status, 500 for unknown codes.
func HTTPStatus(code failure.ErrorCode) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
