package api

import (
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Money is an amount the store API reads as a JSON number with two
// decimal places.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

type couponRequest struct {
	Code     string `json:"code"`
	Subtotal Money  `json:"subtotal"`
}

// CouponResult is the server's verdict on a coupon code.
type CouponResult struct {
	Valid   bool           `json:"valid"`
	Coupon  *domain.Coupon `json:"coupon,omitempty"`
	Message string         `json:"message,omitempty"`
}

type StockLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type stockRequest struct {
	Items []StockLine `json:"items"`
}

type stockResponse struct {
	OutOfStockItems []struct {
		Name string `json:"name"`
	} `json:"outOfStockItems"`
}

type OrderItem struct {
	ProductID  int64             `json:"product_id"`
	Quantity   int               `json:"quantity"`
	UnitPrice  Money             `json:"unit_price"`
	Attributes map[string]string `json:"attributes"`
}

// OrderCoupon is the applied coupon as sent with an order.
type OrderCoupon struct {
	Code  string              `json:"code"`
	Type  domain.DiscountType `json:"discount_type"`
	Value Money               `json:"discount_value"`
}

// OrderRequest is the POST /orders body.
type OrderRequest struct {
	CustomerFirstName  string       `json:"customer_first_name"`
	CustomerLastName   string       `json:"customer_last_name"`
	CustomerEmail      string       `json:"customer_email"`
	CustomerPhone      string       `json:"customer_phone"`
	ShippingAddress    string       `json:"shipping_address"`
	ShippingCity       string       `json:"shipping_city"`
	ShippingState      string       `json:"shipping_state"`
	ShippingPostalCode string       `json:"shipping_postal_code"`
	ShippingCountry    string       `json:"shipping_country"`
	DeliveryMethod     string       `json:"delivery_method"`
	Items              []OrderItem  `json:"items"`
	Subtotal           Money        `json:"subtotal"`
	ShippingCost       Money        `json:"shipping_cost"`
	DeliveryCost       Money        `json:"delivery_cost"`
	TaxAmount          Money        `json:"tax_amount"`
	DiscountAmount     Money        `json:"discount_amount"`
	TotalAmount        Money        `json:"total_amount"`
	PaymentMethod      string       `json:"payment_method"`
	Coupon             *OrderCoupon `json:"coupon,omitempty"`
	IsGift             bool         `json:"is_gift"`
	GiftMessage        string       `json:"gift_message,omitempty"`
	Notes              string       `json:"notes,omitempty"`
}

// OrderReceipt is the body of a successful POST /orders.
type OrderReceipt struct {
	OrderNumber string `json:"order_number"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func NewOrderRequest(d domain.OrderDraft) OrderRequest {
	items := make([]OrderItem, len(d.Items))
	for i, it := range d.Items {
		attrs := map[string]string{"name": it.Product.Name}
		if it.Product.ImageURL != "" {
			attrs["image_url"] = it.Product.ImageURL
		}
		items[i] = OrderItem{
			ProductID:  it.Product.ID,
			Quantity:   it.Quantity,
			UnitPrice:  NewMoney(it.Product.Price),
			Attributes: attrs,
		}
	}

	f := d.Form
	req := OrderRequest{
		CustomerFirstName:  strings.TrimSpace(f.FirstName),
		CustomerLastName:   strings.TrimSpace(f.LastName),
		CustomerEmail:      strings.TrimSpace(f.Email),
		CustomerPhone:      strings.TrimSpace(f.Phone),
		ShippingAddress:    strings.TrimSpace(f.Address),
		ShippingCity:       strings.TrimSpace(f.City),
		ShippingState:      strings.TrimSpace(f.State),
		ShippingPostalCode: strings.TrimSpace(f.PostalCode),
		ShippingCountry:    strings.TrimSpace(f.Country),
		DeliveryMethod:     d.DeliveryID,
		Items:              items,
		Subtotal:           NewMoney(d.Pricing.Subtotal),
		ShippingCost:       NewMoney(d.Pricing.ShippingCost),
		DeliveryCost:       NewMoney(d.Pricing.DeliveryCost),
		TaxAmount:          NewMoney(d.Pricing.TaxAmount),
		DiscountAmount:     NewMoney(d.Pricing.DiscountAmount),
		TotalAmount:        NewMoney(d.Pricing.Total),
		PaymentMethod:      string(f.PaymentMethod),
		IsGift:             f.IsGift,
		Notes:              f.Notes,
	}
	if d.Coupon != nil {
		req.Coupon = &OrderCoupon{Code: d.Coupon.Code, Type: d.Coupon.Type, Value: NewMoney(d.Coupon.Value)}
	}
	if f.IsGift {
		req.GiftMessage = f.GiftMessage
	}
	return req
}
