// Package coupon validates coupon codes against the store and holds the one
// coupon applied to the current checkout.
package coupon

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	reasonBlank       = "please enter a coupon code"
	reasonInvalid     = "invalid coupon code"
	reasonUnreachable = "unable to validate coupon, check your connection and try again"
	reasonFailed      = "failed to validate coupon, please try again"
)

// Backend is the part of the store API the validator needs.
type Backend interface {
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (api.CouponResult, error)
}

type Validator struct {
	backend Backend
	log     *slog.Logger
}

func NewValidator(backend Backend, log *slog.Logger) *Validator {
	return &Validator{backend: backend, log: log}
}

// Validate returns the coupon the server accepted for code. Every failure is
// a *domain.CouponError with a reason fit for the shopper.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Coupon{}, &domain.CouponError{Reason: reasonBlank}
	}

	res, err := v.backend.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		v.log.WarnContext(ctx, "coupon validation failed", "code", code, "error", err)
		return domain.Coupon{}, &domain.CouponError{Code: code, Reason: failureReason(err), Err: err}
	}

	if !res.Valid || res.Coupon == nil {
		reason := res.Message
		if reason == "" {
			reason = reasonInvalid
		}
		return domain.Coupon{}, &domain.CouponError{Code: code, Reason: reason}
	}

	c := *res.Coupon
	if c.Code == "" {
		c.Code = code
	}
	if c.Type != domain.DiscountPercentage && c.Type != domain.DiscountFixed {
		return domain.Coupon{}, &domain.CouponError{Code: code, Reason: reasonInvalid}
	}
	return c, nil
}

func failureReason(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var ne *domain.NetworkError
	if errors.As(err, &ne) {
		return reasonUnreachable
	}
	return reasonFailed
}
