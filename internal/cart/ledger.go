package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrPersist wraps a store failure after an in-memory change was applied.
var ErrPersist = errors.New("failed to persist cart")

// Ledger is the shopper's cart for one session. Lines keep first-add order,
// there is at most one line per product and every quantity is at least 1.
// Each mutation is written to the store before the call returns; a failed
// write is reported but the in-memory change stands.
type Ledger struct {
	mu    sync.RWMutex
	items []domain.CartItem
	store Store
	log   *slog.Logger
}

func NewLedger(store Store, log *slog.Logger) *Ledger {
	return &Ledger{
		store: store,
		log:   log,
	}
}

// Restore loads the persisted record. A missing record leaves the ledger
// empty. A corrupt record is deleted and the ledger starts empty; that case
// is logged and not returned. Other store errors are returned.
func (l *Ledger) Restore(ctx context.Context) error {
	items, err := l.store.Load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil

	switch {
	case err == nil:
		l.items = items
		l.log.InfoContext(ctx, "cart restored", "lines", len(items))
		return nil
	case errors.Is(err, ErrSnapshotNotFound):
		return nil
	case errors.Is(err, domain.ErrCorruptSnapshot):
		l.log.WarnContext(ctx, "discarding corrupt cart snapshot", "error", err)
		if errClear := l.store.Clear(ctx); errClear != nil {
			l.log.WarnContext(ctx, "failed to discard corrupt cart snapshot", "error", errClear)
		}
		return nil
	default:
		return fmt.Errorf("failed to restore cart: %w", err)
	}
}

// Add puts one more of product in the cart, merging with an existing line.
func (l *Ledger) Add(ctx context.Context, product domain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexOf(product.ID); i >= 0 {
		l.items[i].Quantity++
	} else {
		l.items = append(l.items, domain.CartItem{Product: product, Quantity: 1})
	}
	return l.persist(ctx)
}

// Increment adds one to an existing line. Unknown ids are ignored.
func (l *Ledger) Increment(ctx context.Context, productID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(productID)
	if i < 0 {
		return nil
	}
	l.items[i].Quantity++
	return l.persist(ctx)
}

// Decrement takes one off a line and drops the line instead of reaching 0.
func (l *Ledger) Decrement(ctx context.Context, productID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(productID)
	if i < 0 {
		return nil
	}
	if l.items[i].Quantity <= 1 {
		l.removeAt(i)
	} else {
		l.items[i].Quantity--
	}
	return l.persist(ctx)
}

func (l *Ledger) Remove(ctx context.Context, productID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(productID)
	if i < 0 {
		return nil
	}
	l.removeAt(i)
	return l.persist(ctx)
}

// Clear empties the cart and erases the persisted record.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	if err := l.store.Clear(ctx); err != nil {
		l.log.ErrorContext(ctx, "cart snapshot clear failed", "error", err)
		return fmt.Errorf("%w: clear: %w", ErrPersist, err)
	}
	return nil
}

// Items returns a copy of the lines in first-add order.
func (l *Ledger) Items() []domain.CartItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.CartItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Total() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Quantity returns how many of productID are in the cart, 0 if none.
func (l *Ledger) Quantity(productID int64) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(productID); i >= 0 {
		return l.items[i].Quantity
	}
	return 0
}

// Count is the number of units across all lines.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

func (l *Ledger) IsEmpty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items) == 0
}

func (l *Ledger) indexOf(productID int64) int {
	for i, it := range l.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (l *Ledger) removeAt(i int) {
	l.items = append(l.items[:i], l.items[i+1:]...)
}

func (l *Ledger) persist(ctx context.Context) error {
	if err := l.store.Save(ctx, l.items); err != nil {
		l.log.ErrorContext(ctx, "cart snapshot save failed", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
