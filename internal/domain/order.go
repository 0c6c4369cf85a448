package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentPayPal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	}
	return false
}

// ShopperForm is the customer and shipping data entered at checkout.
type ShopperForm struct {
	FirstName     string        `json:"first_name" validate:"required"`
	LastName      string        `json:"last_name" validate:"required"`
	Email         string        `json:"email" validate:"required,email"`
	Phone         string        `json:"phone" validate:"phonedigits"`
	Address       string        `json:"address" validate:"required"`
	City          string        `json:"city" validate:"required"`
	State         string        `json:"state" validate:"required"`
	PostalCode    string        `json:"postal_code" validate:"postcode_iso3166_alpha2=US"`
	Country       string        `json:"country" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"payment"`
	IsGift        bool          `json:"is_gift"`
	GiftMessage   string        `json:"gift_message" validate:"required_if=IsGift true"`
	Notes         string        `json:"notes"`
}

// OrderDraft is assembled once per submit and never changed afterwards.
type OrderDraft struct {
	ID         uuid.UUID
	Form       ShopperForm
	Items      []CartItem
	DeliveryID string
	Pricing    PricingBreakdown
	Coupon     *Coupon
	CreatedAt  time.Time
}
