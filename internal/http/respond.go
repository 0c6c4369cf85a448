package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps storefront errors onto HTTP statuses.
func handleError(w http.ResponseWriter, err error) {
	var (
		netErr    *domain.NetworkError
		couponErr *domain.CouponError
		valErr    *domain.ValidationError
	)

	switch {
	case errors.As(err, &couponErr):
		respondError(w, http.StatusUnprocessableEntity, "invalid_coupon", couponErr.Reason)
	case errors.As(err, &valErr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Code: "validation_failed", Details: valErr.Fields})
	case errors.As(err, &netErr):
		respondError(w, http.StatusBadGateway, "store_unavailable", "unable to reach the store, check your connection and try again.")
	case errors.Is(err, session.ErrUnknownProduct):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrUnknownDelivery):
		respondError(w, http.StatusBadRequest, "invalid_delivery", err.Error())
	case errors.Is(err, catalog.ErrInvalidPriceRange),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, "invalid_criteria", err.Error())
	case errors.Is(err, catalog.ErrNoMorePages):
		respondError(w, http.StatusConflict, "no_more_pages", err.Error())
	case errors.Is(err, catalog.ErrPageLoading):
		respondError(w, http.StatusConflict, "page_loading", err.Error())
	case errors.Is(err, checkout.ErrSubmitInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	case errors.Is(err, checkout.ErrAlreadyConfirmed):
		respondError(w, http.StatusConflict, "checkout_confirmed", err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// outcomeStatus picks the HTTP status for a checkout outcome.
func outcomeStatus(out checkout.Outcome) int {
	switch out.Status {
	case domain.CheckoutStatusConfirmed:
		return http.StatusCreated
	case domain.CheckoutStatusValidating:
		return http.StatusUnprocessableEntity
	case domain.CheckoutStatusFailed:
		switch out.Kind {
		case domain.SubmissionOutOfStock, domain.SubmissionConflict:
			return http.StatusConflict
		case domain.SubmissionInvalid:
			return http.StatusBadRequest
		case domain.SubmissionPayment:
			return http.StatusPaymentRequired
		default:
			return http.StatusBadGateway
		}
	}
	return http.StatusOK
}
