// Package checkout turns the cart and the checkout form into exactly one
// order submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/fjod/go_cart/storefront/internal/checkout"

type Cart interface {
	Items() []domain.CartItem
	Clear(ctx context.Context) error
}

type StockChecker interface {
	Check(ctx context.Context, items []domain.CartItem) error
}

type OrderBackend interface {
	CreateOrder(ctx context.Context, order api.OrderRequest, idempotencyKey string) (api.OrderReceipt, error)
}

// Request is what the shopper submits along with the cart.
type Request struct {
	Form       domain.ShopperForm
	DeliveryID string
	Coupon     *domain.Coupon
}

type Submitter struct {
	cart      Cart
	stock     StockChecker
	orders    OrderBackend
	publisher publisher.Publisher
	log       *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() uuid.UUID

	mu     sync.Mutex
	status domain.CheckoutStatus
	last   Outcome
	draft  *domain.OrderDraft
}

func NewSubmitter(cart Cart, stock StockChecker, orders OrderBackend, pub publisher.Publisher, log *slog.Logger) *Submitter {
	return &Submitter{
		cart:      cart,
		stock:     stock,
		orders:    orders,
		publisher: pub,
		log:       log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		newID:     uuid.New,
		status:    domain.CheckoutStatusIdle,
		last:      Outcome{Status: domain.CheckoutStatusIdle},
	}
}

// Submit runs validation, the stock check and the order POST in that order.
// Shopper-facing failures are reported in the Outcome. The error is only set
// when the call itself is not allowed: a submission is already running or
// the checkout is already confirmed.
func (s *Submitter) Submit(ctx context.Context, req Request) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Submit")
	defer span.End()

	req.Form = WithDefaults(req.Form)

	s.mu.Lock()
	switch s.status {
	case domain.CheckoutStatusStockChecking, domain.CheckoutStatusSubmitting:
		s.mu.Unlock()
		return s.Outcome(), ErrSubmitInProgress
	case domain.CheckoutStatusConfirmed:
		s.mu.Unlock()
		return s.Outcome(), ErrAlreadyConfirmed
	case domain.CheckoutStatusFailed:
		s.mustTransition(domain.CheckoutStatusIdle)
	}
	s.mustTransition(domain.CheckoutStatusValidating)

	items := s.cart.Items()
	if verr := ValidateForm(req.Form, len(items)); verr != nil {
		out := s.settle(Outcome{Status: domain.CheckoutStatusValidating, Fields: verr.Fields, Err: verr})
		s.mu.Unlock()
		span.SetAttributes(attribute.String("checkout.status", string(out.Status)))
		return out, nil
	}

	s.mustTransition(domain.CheckoutStatusStockChecking)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("checkout.lines", len(items)))
	if err := s.stock.Check(ctx, items); err != nil {
		out := s.finish(ctx, stockFailure(err))
		recordFailure(span, out)
		return out, nil
	}

	d := domain.OrderDraft{
		ID:         s.newID(),
		Form:       req.Form,
		Items:      items,
		DeliveryID: req.DeliveryID,
		Pricing:    pricing.Compute(items, req.DeliveryID, req.Coupon),
		Coupon:     req.Coupon,
		CreatedAt:  s.now(),
	}
	span.SetAttributes(attribute.String("checkout.draft_id", d.ID.String()))

	s.mu.Lock()
	s.mustTransition(domain.CheckoutStatusSubmitting)
	s.draft = &d
	s.mu.Unlock()

	receipt, err := s.orders.CreateOrder(ctx, api.NewOrderRequest(d), d.ID.String())
	if err != nil {
		out := s.finish(ctx, submissionFailure(err))
		out.DraftID = d.ID.String()
		recordFailure(span, out)
		s.log.WarnContext(ctx, "order submission failed", "draft_id", d.ID, "kind", out.Kind, "error", err)
		return out, nil
	}

	out := s.finish(ctx, Outcome{
		Status:      domain.CheckoutStatusConfirmed,
		DraftID:     d.ID.String(),
		OrderNumber: receipt.OrderNumber,
	})
	s.log.InfoContext(ctx, "order confirmed", "draft_id", d.ID, "order_number", receipt.OrderNumber, "total", d.Pricing.Total.String())

	if err := s.cart.Clear(ctx); err != nil {
		s.log.ErrorContext(ctx, "failed to clear cart after order", "error", err)
	}
	if err := s.publisher.PublishCheckoutConfirmed(ctx, publisher.NewCheckoutConfirmed(d, receipt.OrderNumber, s.now())); err != nil {
		s.log.ErrorContext(ctx, "failed to publish checkout event", "error", err)
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// Reset starts a new checkout cycle. It is refused while a submission is
// running.
func (s *Submitter) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutStatusStockChecking || s.status == domain.CheckoutStatusSubmitting {
		return ErrSubmitInProgress
	}
	s.status = domain.CheckoutStatusIdle
	s.last = Outcome{Status: domain.CheckoutStatusIdle}
	s.draft = nil
	return nil
}

func (s *Submitter) Status() domain.CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Outcome returns the result of the most recent Submit, or the current
// in-flight status.
func (s *Submitter) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.last
	out.Status = s.status
	return out
}

// Draft returns the order built by the last submission that reached the
// network, if any.
func (s *Submitter) Draft() (domain.OrderDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return domain.OrderDraft{}, false
	}
	return *s.draft, true
}

func (s *Submitter) finish(ctx context.Context, out Outcome) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(out.Status); err != nil {
		s.log.ErrorContext(ctx, "checkout state machine rejected transition", "error", err)
	}
	return s.settle(out)
}

// settle records out as the latest outcome. Callers hold mu.
func (s *Submitter) settle(out Outcome) Outcome {
	s.last = out
	return out
}

func (s *Submitter) transition(to domain.CheckoutStatus) error {
	if !domain.CanTransitionTo(s.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.status, to)
	}
	s.status = to
	return nil
}

// mustTransition is for moves Submit has already guarded. Callers hold mu.
func (s *Submitter) mustTransition(to domain.CheckoutStatus) {
	if err := s.transition(to); err != nil {
		panic(err)
	}
}

func stockFailure(err error) Outcome {
	out := Outcome{Status: domain.CheckoutStatusFailed, Err: err}

	var conflict *domain.StockConflictError
	var netErr *domain.NetworkError
	switch {
	case errors.As(err, &conflict):
		out.Kind = domain.SubmissionOutOfStock
		out.Message = conflict.Error()
		out.OutOfStock = conflict.Items
	case errors.As(err, &netErr):
		out.Kind = domain.SubmissionNetwork
		out.Message = msgUnreachable
	default:
		out.Kind = domain.SubmissionFailed
		out.Message = msgStockCheckFail
	}
	return out
}

func submissionFailure(err error) Outcome {
	se := &domain.OrderSubmissionError{Kind: domain.SubmissionFailed, Message: msgOrderFailed, Err: err}

	var status *api.StatusError
	var netErr *domain.NetworkError
	switch {
	case errors.As(err, &status):
		se.Status = status.Status
		switch status.Status {
		case http.StatusBadRequest:
			se.Kind, se.Message = domain.SubmissionInvalid, msgInvalidOrder
		case http.StatusConflict:
			se.Kind, se.Message = domain.SubmissionConflict, msgCartChanged
		case http.StatusUnprocessableEntity:
			se.Kind, se.Message = domain.SubmissionPayment, msgPaymentFailed
		}
	case errors.As(err, &netErr):
		se.Kind, se.Message = domain.SubmissionNetwork, msgUnreachable
	}

	return Outcome{
		Status:  domain.CheckoutStatusFailed,
		Kind:    se.Kind,
		Message: se.Message,
		Err:     se,
	}
}

func recordFailure(span trace.Span, out Outcome) {
	span.SetAttributes(
		attribute.String("checkout.status", string(out.Status)),
		attribute.String("checkout.kind", string(out.Kind)),
	)
	if out.Err != nil {
		span.RecordError(out.Err)
	}
	span.SetStatus(codes.Error, out.Message)
}
