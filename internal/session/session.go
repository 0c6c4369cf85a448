// Package session owns one shopper's storefront state: the catalog view,
// the cart, the delivery choice, the applied coupon and the checkout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/coupon"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/stock"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownProduct  = errors.New("product not found in catalog")
	ErrUnknownDelivery = errors.New("unknown delivery option")
)

type Deps struct {
	Store     cart.Store
	Catalog   catalog.Source
	Coupons   coupon.Backend
	Stock     stock.Backend
	Orders    checkout.OrderBackend
	Publisher publisher.Publisher
	PageDelay catalog.DelayFunc
	Logger    *slog.Logger
}

// CartView is the cart as the UI renders it.
type CartView struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

// CheckoutView bundles everything the checkout page shows.
type CheckoutView struct {
	Cart     CartView                `json:"cart"`
	Delivery domain.DeliveryOption   `json:"delivery"`
	Options  []domain.DeliveryOption `json:"delivery_options"`
	Coupon   coupon.State            `json:"coupon"`
	Pricing  domain.PricingBreakdown `json:"pricing"`
	Checkout checkout.Outcome        `json:"checkout"`
}

type Session struct {
	ledger    *cart.Ledger
	browser   *catalog.Browser
	loader    *catalog.Loader
	coupons   *coupon.Slot
	submitter *checkout.Submitter
	log       *slog.Logger

	mu         sync.Mutex
	deliveryID string
}

func New(d Deps) *Session {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	pub := d.Publisher
	if pub == nil {
		pub = publisher.NewNoop(log)
	}

	ledger := cart.NewLedger(d.Store, log)
	return &Session{
		ledger:     ledger,
		browser:    catalog.NewBrowser(d.PageDelay),
		loader:     catalog.NewLoader(d.Catalog, log),
		coupons:    coupon.NewSlot(coupon.NewValidator(d.Coupons, log)),
		submitter:  checkout.NewSubmitter(ledger, stock.NewVerifier(d.Stock, log), d.Orders, pub, log),
		log:        log,
		deliveryID: domain.DefaultDeliveryOptionID,
	}
}

// Start restores the persisted cart and loads the catalog. A catalog
// failure is left in the load state for the shopper to retry; only a cart
// store failure is returned.
func (s *Session) Start(ctx context.Context) error {
	if err := s.ledger.Restore(ctx); err != nil {
		return err
	}
	if _, err := s.LoadCatalog(ctx); err != nil {
		s.log.WarnContext(ctx, "catalog unavailable at start", "error", err)
	}
	return nil
}

// LoadCatalog fetches the catalog again and widens the price filter so the
// most expensive product is visible.
func (s *Session) LoadCatalog(ctx context.Context) (catalog.LoadState, error) {
	state, err := s.loader.Load(ctx)
	if err != nil {
		return state, err
	}

	s.browser.SetProducts(state.Products)
	if _, hi := catalog.PriceBounds(state.Products); hi.GreaterThan(s.browser.Criteria().MaxPrice) {
		c := s.browser.Criteria()
		c.MaxPrice = hi.Ceil()
		if err := s.browser.SetCriteria(c); err != nil {
			return state, fmt.Errorf("failed to widen price filter: %w", err)
		}
	}
	return state, nil
}

func (s *Session) CatalogState() catalog.LoadState {
	return s.loader.State()
}

func (s *Session) Catalog() catalog.View {
	return s.browser.View()
}

func (s *Session) Criteria() catalog.Criteria {
	return s.browser.Criteria()
}

func (s *Session) SetCriteria(c catalog.Criteria) (catalog.View, error) {
	if err := s.browser.SetCriteria(c); err != nil {
		return s.browser.View(), err
	}
	return s.browser.View(), nil
}

func (s *Session) Search(term string) catalog.View {
	s.browser.SetSearch(term)
	return s.browser.View()
}

func (s *Session) NextPage(ctx context.Context) (catalog.View, error) {
	return s.browser.NextPage(ctx)
}

// AddToCart adds one unit of a catalog product.
func (s *Session) AddToCart(ctx context.Context, productID int64) (CartView, error) {
	p, ok := s.product(productID)
	if !ok {
		return s.Cart(), fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	return s.mutateCart(ctx, func(ctx context.Context) error { return s.ledger.Add(ctx, p) })
}

func (s *Session) Increment(ctx context.Context, productID int64) (CartView, error) {
	return s.mutateCart(ctx, func(ctx context.Context) error { return s.ledger.Increment(ctx, productID) })
}

func (s *Session) Decrement(ctx context.Context, productID int64) (CartView, error) {
	return s.mutateCart(ctx, func(ctx context.Context) error { return s.ledger.Decrement(ctx, productID) })
}

func (s *Session) Remove(ctx context.Context, productID int64) (CartView, error) {
	return s.mutateCart(ctx, func(ctx context.Context) error { return s.ledger.Remove(ctx, productID) })
}

func (s *Session) ClearCart(ctx context.Context) (CartView, error) {
	return s.mutateCart(ctx, s.ledger.Clear)
}

func (s *Session) Cart() CartView {
	return CartView{
		Items: s.ledger.Items(),
		Count: s.ledger.Count(),
		Total: s.ledger.Total(),
	}
}

// Quantity is the in-cart count shown next to a catalog product.
func (s *Session) Quantity(productID int64) int {
	return s.ledger.Quantity(productID)
}

func (s *Session) SelectDelivery(id string) (domain.DeliveryOption, error) {
	opt, ok := domain.FindDeliveryOption(id)
	if !ok {
		return domain.DeliveryOption{}, fmt.Errorf("%w: %q", ErrUnknownDelivery, id)
	}
	s.mu.Lock()
	s.deliveryID = opt.ID
	s.mu.Unlock()
	return opt, nil
}

func (s *Session) Delivery() domain.DeliveryOption {
	s.mu.Lock()
	id := s.deliveryID
	s.mu.Unlock()
	opt, _ := domain.FindDeliveryOption(id)
	return opt
}

// ApplyCoupon validates code against the current subtotal. On failure the
// previously applied coupon stays.
func (s *Session) ApplyCoupon(ctx context.Context, code string) (coupon.State, error) {
	_, err := s.coupons.Apply(ctx, code, s.ledger.Total())
	return s.coupons.State(), err
}

func (s *Session) RemoveCoupon() coupon.State {
	s.coupons.Remove()
	return s.coupons.State()
}

func (s *Session) Pricing() domain.PricingBreakdown {
	return pricing.Compute(s.ledger.Items(), s.Delivery().ID, s.coupons.Applied())
}

// Checkout submits the cart once. After a confirmed order the coupon and
// delivery choice go back to their defaults.
func (s *Session) Checkout(ctx context.Context, form domain.ShopperForm) (checkout.Outcome, error) {
	out, err := s.submitter.Submit(ctx, checkout.Request{
		Form:       form,
		DeliveryID: s.Delivery().ID,
		Coupon:     s.coupons.Applied(),
	})
	if err != nil {
		return out, err
	}
	if out.Confirmed() {
		s.coupons.Remove()
		s.mu.Lock()
		s.deliveryID = domain.DefaultDeliveryOptionID
		s.mu.Unlock()
	}
	return out, nil
}

func (s *Session) CheckoutView() CheckoutView {
	return CheckoutView{
		Cart:     s.Cart(),
		Delivery: s.Delivery(),
		Options:  domain.DeliveryOptions,
		Coupon:   s.coupons.State(),
		Pricing:  s.Pricing(),
		Checkout: s.submitter.Outcome(),
	}
}

func (s *Session) CheckoutOutcome() checkout.Outcome {
	return s.submitter.Outcome()
}

// mutateCart applies fn and opens a new checkout cycle when the previous one
// ended in a confirmed order.
func (s *Session) mutateCart(ctx context.Context, fn func(context.Context) error) (CartView, error) {
	err := fn(ctx)
	if s.submitter.Status() == domain.CheckoutStatusConfirmed {
		if rerr := s.submitter.Reset(); rerr != nil {
			s.log.WarnContext(ctx, "could not reset checkout", "error", rerr)
		}
	}
	return s.Cart(), err
}

func (s *Session) product(id int64) (domain.Product, bool) {
	for _, p := range s.loader.State().Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
