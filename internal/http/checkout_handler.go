package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type CheckoutHandler struct {
	session *session.Session
	timeout time.Duration
}

func NewCheckoutHandler(s *session.Session, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		session: s,
		timeout: timeout,
	}
}

type DeliveryRequestDTO struct {
	DeliveryID string `json:"delivery_id"`
}

type CouponRequestDTO struct {
	Code string `json:"code"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.CheckoutView())
}

// GET /api/v1/checkout/pricing
func (h *CheckoutHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Pricing())
}

// GET /api/v1/checkout/delivery
func (h *CheckoutHandler) DeliveryOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"selected": h.session.Delivery(),
		"options":  domain.DeliveryOptions,
	})
}

// PUT /api/v1/checkout/delivery
func (h *CheckoutHandler) SelectDelivery(w http.ResponseWriter, r *http.Request) {
	var req DeliveryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if _, err := h.session.SelectDelivery(req.DeliveryID); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.session.CheckoutView())
}

// POST /api/v1/checkout/coupon
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := h.session.ApplyCoupon(ctx, req.Code); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.session.CheckoutView())
}

// DELETE /api/v1/checkout/coupon
func (h *CheckoutHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.session.RemoveCoupon()
	respondJSON(w, http.StatusOK, h.session.CheckoutView())
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	var form domain.ShopperForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	out, err := h.session.Checkout(ctx, form)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, outcomeStatus(out), out)
}

// GET /api/v1/checkout/status
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.CheckoutOutcome())
}
