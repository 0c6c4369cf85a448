package checkout

import "errors"

var (
	ErrSubmitInProgress  = errors.New("checkout submission already in progress")
	ErrAlreadyConfirmed  = errors.New("checkout already confirmed")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// Shopper-facing messages for a failed submission.
const (
	msgInvalidOrder   = "invalid order data, check your information."
	msgCartChanged    = "items in your cart have changed, refresh your cart."
	msgPaymentFailed  = "payment processing failed, check your payment details."
	msgOrderFailed    = "failed to place order, please try again."
	msgUnreachable    = "unable to reach the store, check your connection and try again."
	msgStockCheckFail = "failed to verify stock, please try again."
)
