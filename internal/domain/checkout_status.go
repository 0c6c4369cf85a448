package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle          CheckoutStatus = "IDLE"
	CheckoutStatusValidating    CheckoutStatus = "VALIDATING"
	CheckoutStatusStockChecking CheckoutStatus = "STOCK_CHECKING"
	CheckoutStatusSubmitting    CheckoutStatus = "SUBMITTING"
	CheckoutStatusConfirmed     CheckoutStatus = "CONFIRMED"
	CheckoutStatusFailed        CheckoutStatus = "FAILED"
)

var transitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:          {CheckoutStatusValidating},
	CheckoutStatusValidating:    {CheckoutStatusValidating, CheckoutStatusStockChecking},
	CheckoutStatusStockChecking: {CheckoutStatusSubmitting, CheckoutStatusFailed},
	CheckoutStatusSubmitting:    {CheckoutStatusConfirmed, CheckoutStatusFailed},
	CheckoutStatusFailed:        {CheckoutStatusIdle},
}

// CanTransitionTo reports whether the checkout state machine allows from -> to.
func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusConfirmed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
