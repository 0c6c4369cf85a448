package publisher

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	EventCheckoutConfirmed = "checkout.confirmed"
	DefaultTopic           = "storefront-checkouts"
)

type EventItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CheckoutConfirmed is emitted once per accepted order.
type CheckoutConfirmed struct {
	DraftID        string          `json:"draft_id"`
	OrderNumber    string          `json:"order_number"`
	Items          []EventItem     `json:"items"`
	DeliveryMethod string          `json:"delivery_method"`
	PaymentMethod  string          `json:"payment_method"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ConfirmedAt    time.Time       `json:"confirmed_at"`
}

func NewCheckoutConfirmed(d domain.OrderDraft, orderNumber string, at time.Time) CheckoutConfirmed {
	items := make([]EventItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = EventItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Product.Price,
		}
	}
	evt := CheckoutConfirmed{
		DraftID:        d.ID.String(),
		OrderNumber:    orderNumber,
		Items:          items,
		DeliveryMethod: d.DeliveryID,
		PaymentMethod:  string(d.Form.PaymentMethod),
		TotalAmount:    d.Pricing.Total,
		ConfirmedAt:    at.UTC(),
	}
	if d.Coupon != nil {
		evt.CouponCode = d.Coupon.Code
	}
	return evt
}

type Publisher interface {
	PublishCheckoutConfirmed(ctx context.Context, evt CheckoutConfirmed) error
	Close() error
}
