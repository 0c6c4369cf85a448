package domain

import "github.com/shopspring/decimal"

// PricingBreakdown is derived from the cart, delivery choice and coupon.
// It is recomputed on every change and never persisted.
type PricingBreakdown struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	ShippingCost       decimal.Decimal `json:"shipping_cost"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	DiscountedSubtotal decimal.Decimal `json:"discounted_subtotal"`
	Total              decimal.Decimal `json:"total"`
}
