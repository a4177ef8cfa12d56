package domain

import "github.com/shopspring/decimal"

func init() {
	// amounts travel as JSON numbers, matching the table columns
	decimal.MarshalJSONWithoutQuotes = true
}
