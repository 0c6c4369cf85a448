package domain

import "github.com/shopspring/decimal"

// CartItem is one ledger line. Quantity is always at least 1.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
