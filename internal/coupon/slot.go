package coupon

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// State is what the coupon widget shows.
type State struct {
	Applied *domain.Coupon `json:"applied,omitempty"`
	Pending bool           `json:"pending"`
	Error   string         `json:"error,omitempty"`
}

// Slot holds at most one applied coupon. Validations may overlap; the one
// that finishes last decides the slot.
type Slot struct {
	mu        sync.Mutex
	validator *Validator
	applied   *domain.Coupon
	lastErr   string
	inflight  int
}

func NewSlot(v *Validator) *Slot {
	return &Slot{validator: v}
}

// Apply validates code and on success replaces the applied coupon. A failure
// leaves the previous coupon in place and records the reason.
func (s *Slot) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (domain.Coupon, error) {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	c, err := s.validator.Validate(ctx, code, subtotal)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if err != nil {
		s.lastErr = reasonOf(err)
		return domain.Coupon{}, err
	}
	s.applied = &c
	s.lastErr = ""
	return c, nil
}

// Remove clears the slot without asking the server.
func (s *Slot) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = nil
	s.lastErr = ""
}

// Applied returns a copy of the applied coupon, nil if none.
func (s *Slot) Applied() *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	c := *s.applied
	return &c
}

func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{Pending: s.inflight > 0, Error: s.lastErr}
	if s.applied != nil {
		c := *s.applied
		st.Applied = &c
	}
	return st
}

func reasonOf(err error) string {
	var ce *domain.CouponError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return err.Error()
}
