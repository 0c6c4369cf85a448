package domain

import "github.com/shopspring/decimal"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	Code  string          `json:"code"`
	Type  DiscountType    `json:"discount_type"`
	Value decimal.Decimal `json:"discount_value"`
}
