package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	session *session.Session
	timeout time.Duration
}

func NewCartHandler(s *session.Session, timeout time.Duration) *CartHandler {
	return &CartHandler{
		session: s,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Cart())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	view, err := h.session.AddToCart(ctx, req.ProductID)
	if err != nil {
		h.respondMutation(w, view, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, h.session.Increment)
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, h.session.Decrement)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateItem(w, r, h.session.Remove)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.session.ClearCart(ctx)
	if err != nil {
		h.respondMutation(w, view, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) mutateItem(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (session.CartView, error)) {
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	view, err := fn(ctx, productID)
	if err != nil {
		h.respondMutation(w, view, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// respondMutation reports a failed cart change. A failed snapshot write
// still changed the cart, so the new cart goes back with a warning.
func (h *CartHandler) respondMutation(w http.ResponseWriter, view session.CartView, err error) {
	if isPersistError(err) {
		w.Header().Set("Warning", `199 - "cart could not be saved"`)
		respondJSON(w, http.StatusOK, view)
		return
	}
	handleError(w, err)
}

func isPersistError(err error) bool {
	return errors.Is(err, cart.ErrPersist)
}
