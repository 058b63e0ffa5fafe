package rest_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction_house/pkg/rest"
)

func TestPricesAreJSONNumbers(t *testing.T) {
	rq := require.New(t)
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	b, err := json.Marshal(rest.PurchaseResponse{
		Success:  true,
		Price:    decimal.RequireFromString("12.5"),
		Quantity: 1,
	})
	rq.NoError(err)
	rq.Contains(string(b), `"price":12.5`)

	b, err = json.Marshal(rest.RapCache{"weapon": {"sword": decimal.NewFromInt(0)}})
	rq.NoError(err)
	rq.JSONEq(`{"weapon":{"sword":0}}`, string(b))
}
