package checkout

import "github.com/fjod/go_cart/storefront/internal/domain"

// Outcome is the tagged result of one Submit call.
type Outcome struct {
	Status      domain.CheckoutStatus `json:"status"`
	DraftID     string                `json:"draft_id,omitempty"`
	OrderNumber string                `json:"order_number,omitempty"`
	Kind        domain.SubmissionKind `json:"kind,omitempty"`
	Message     string                `json:"message,omitempty"`
	Fields      map[string]string     `json:"fields,omitempty"`
	OutOfStock  []string              `json:"out_of_stock,omitempty"`
	Err         error                 `json:"-"`
}

func (o Outcome) Confirmed() bool {
	return o.Status == domain.CheckoutStatusConfirmed
}
