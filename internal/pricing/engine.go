// Package pricing turns a cart, a delivery choice and an optional coupon
// into a PricingBreakdown.
package pricing

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShipping          = decimal.NewFromInt(10)
	TaxRate               = decimal.RequireFromString("0.07")
)

const centPlaces = 2

var hundred = decimal.NewFromInt(100)

// Compute is pure. Shipping and tax are taken from the subtotal before any
// discount, and the discounted subtotal never drops below zero. An unknown
// delivery id costs nothing.
func Compute(items []domain.CartItem, deliveryID string, coupon *domain.Coupon) domain.PricingBreakdown {
	subtotal := Subtotal(items)

	shipping := FlatShipping
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	delivery := decimal.Zero
	if opt, ok := domain.FindDeliveryOption(deliveryID); ok {
		delivery = opt.Price
	}

	tax := subtotal.Mul(TaxRate).Round(centPlaces)
	discount := Discount(subtotal, coupon)

	discounted := subtotal.Sub(discount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	return domain.PricingBreakdown{
		Subtotal:           subtotal.Round(centPlaces),
		ShippingCost:       shipping,
		DeliveryCost:       delivery,
		TaxAmount:          tax,
		DiscountAmount:     discount,
		DiscountedSubtotal: discounted.Round(centPlaces),
		Total:              discounted.Add(shipping).Add(delivery).Add(tax).Round(centPlaces),
	}
}

func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Discount is the amount a coupon takes off subtotal, rounded to cents.
// Unknown coupon types and negative values discount nothing.
func Discount(subtotal decimal.Decimal, coupon *domain.Coupon) decimal.Decimal {
	if coupon == nil || coupon.Value.IsNegative() {
		return decimal.Zero
	}

	switch coupon.Type {
	case domain.DiscountPercentage:
		return subtotal.Mul(coupon.Value).Div(hundred).Round(centPlaces)
	case domain.DiscountFixed:
		return coupon.Value.Round(centPlaces)
	default:
		return decimal.Zero
	}
}
