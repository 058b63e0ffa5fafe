package rest

import "github.com/shopspring/decimal"

// Игровые серверы шлют и ждут цены числами, а не строками.
func init() { //nolint:gochecknoinits
	decimal.MarshalJSONWithoutQuotes = true
}
