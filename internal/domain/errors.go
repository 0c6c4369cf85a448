package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCorruptSnapshot marks a persisted cart record that could not be decoded.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// NetworkError wraps any transport failure talking to the store API.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError carries per-field messages from the checkout form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StockConflictError names the items the store can no longer supply.
type StockConflictError struct {
	Items []string
}

func (e *StockConflictError) Error() string {
	return "some items are out of stock: " + strings.Join(e.Items, ", ")
}

// CouponError is local to the coupon widget and never blocks checkout.
type CouponError struct {
	Code   string
	Reason string
	Err    error
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %q: %s", e.Code, e.Reason)
}

func (e *CouponError) Unwrap() error { return e.Err }

type SubmissionKind string

const (
	SubmissionInvalid    SubmissionKind = "invalid_order"
	SubmissionConflict   SubmissionKind = "cart_changed"
	SubmissionPayment    SubmissionKind = "payment_failed"
	SubmissionFailed     SubmissionKind = "failed"
	SubmissionNetwork    SubmissionKind = "network"
	SubmissionOutOfStock SubmissionKind = "out_of_stock" // pre-submit stock check
)

// OrderSubmissionError is the interpreted outcome of a failed POST /orders.
type OrderSubmissionError struct {
	Kind    SubmissionKind
	Status  int
	Message string
	Err     error
}

func (e *OrderSubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("order submission failed (%d): %s", e.Status, e.Message)
	}
	return "order submission failed: " + e.Message
}

func (e *OrderSubmissionError) Unwrap() error { return e.Err }
