package errcodes_test

import (
	"net/http"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"auction_house/pkg/errcodes"
)

func TestHTTPStatus(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		code   failure.ErrorCode
		status int
	}{
		{code: errcodes.ListingNotFound, status: http.StatusNotFound},
		{code: errcodes.InsufficientFunds, status: http.StatusPaymentRequired},
		{code: errcodes.Unauthorized, status: http.StatusUnauthorized},
		{code: errcodes.StorageUnavailable, status: http.StatusServiceUnavailable},
		{code: errcodes.SessionAlreadyConnected, status: http.StatusConflict},
		{code: errcodes.InvalidPrice, status: http.StatusBadRequest},
		{code: failure.ErrorCode("Unknown"), status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.code.String(), func(*testing.T) {
			rq.Equal(tc.status, errcodes.HTTPStatus(tc.code))
		})
	}
}
