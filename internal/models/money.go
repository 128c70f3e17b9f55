package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts are emitted as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
