package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"auction_house/pkg/contextx"
	"auction_house/pkg/errcodes"
	"auction_house/pkg/httpx/reply"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type testCodedError struct {
	code failure.ErrorCode
}

func (e testCodedError) Error() string                { return "coded: " + e.code.String() }
func (e testCodedError) ErrorCode() failure.ErrorCode { return e.code }
func (e testCodedError) Description() string          { return "listing not found" }

func TestError(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		err        error
		statusCode int
		code       string
	}{
		{
			name:       "Domain error",
			err:        fmt.Errorf("service.Cancel: %w", testCodedError{code: errcodes.ListingNotFound}),
			statusCode: http.StatusNotFound,
			code:       "ListingNotFound",
		},
		{
			name:       "Insufficient funds",
			err:        testCodedError{code: errcodes.InsufficientFunds},
			statusCode: http.StatusPaymentRequired,
			code:       "InsufficientFunds",
		},
		{
			name: "Invalid argument",
			err: failure.NewInvalidArgumentError(
				"validation error",
				failure.WithCode(errcodes.ValidationError),
				failure.WithDescription("price is required"),
			),
			statusCode: http.StatusBadRequest,
			code:       "ValidationError",
		},
		{
			name:       "Plain error",
			err:        errors.New("boom"),
			statusCode: http.StatusInternalServerError,
			code:       "InternalServerError",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ctx := contextx.WithTraceID(context.Background(), "trace-1")
			w := httptest.NewRecorder()

			reply.Error(ctx, w, tc.err)

			rq.Equal(tc.statusCode, w.Code)

			var body map[string]any

			rq.NoError(json.Unmarshal(w.Body.Bytes(), &body))
			rq.Equal(tc.code, body["code"])
			rq.Equal(false, body["success"])
			rq.Equal("trace-1", body["supportId"])
		})
	}
}
