package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Source is the catalog side of the store API.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadLoading LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// LoadState is the outcome of the most recent catalog load. On failure the
// last good catalog is kept and Message holds the banner text.
type LoadState struct {
	Status     LoadStatus        `json:"status"`
	Message    string            `json:"message,omitempty"`
	Products   []domain.Product  `json:"-"`
	Categories []domain.Category `json:"categories"`
	LoadedAt   time.Time         `json:"loaded_at,omitempty"`
}

const (
	loadFailedMessage = "could not load the catalog, please retry"
	loadTimeout       = 30 * time.Second
)

type Loader struct {
	source  Source
	log     *slog.Logger
	sfg     singleflight.Group // concurrent loads share one round trip
	timeout time.Duration

	mu    sync.RWMutex
	state LoadState
}

func NewLoader(source Source, log *slog.Logger) *Loader {
	return &Loader{
		source:  source,
		log:     log,
		timeout: loadTimeout,
		state:   LoadState{Status: LoadIdle},
	}
}

// Load fetches products and categories. Callers arriving while a load is in
// flight wait for it instead of starting another. The fetch itself is not
// tied to any one caller: a caller whose ctx ends stops waiting, the load
// carries on for the others under its own timeout.
func (l *Loader) Load(ctx context.Context) (LoadState, error) {
	ch := l.sfg.DoChan("catalog", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			l.log.DebugContext(ctx, "catalog load shared with in-flight request")
		}
		if res.Err != nil {
			return l.State(), res.Err
		}
		return res.Val.(LoadState), nil
	case <-ctx.Done():
		return l.State(), ctx.Err()
	}
}

func (l *Loader) fetch(ctx context.Context) (LoadState, error) {
	l.setStatus(LoadLoading)

	products, err := l.source.ListProducts(ctx)
	if err != nil {
		return l.fail(ctx, fmt.Errorf("failed to load products: %w", err))
	}
	categories, err := l.source.ListCategories(ctx)
	if err != nil {
		return l.fail(ctx, fmt.Errorf("failed to load categories: %w", err))
	}

	state := LoadState{
		Status:     LoadReady,
		Products:   products,
		Categories: categories,
		LoadedAt:   time.Now(),
	}
	l.mu.Lock()
	l.state = state
	l.mu.Unlock()
	return state, nil
}

func (l *Loader) fail(ctx context.Context, err error) (LoadState, error) {
	l.log.ErrorContext(ctx, "catalog load failed", "error", err)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Status = LoadFailed
	l.state.Message = loadFailedMessage
	return l.state, err
}

func (l *Loader) State() LoadState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *Loader) setStatus(s LoadStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Status = s
	l.state.Message = ""
}

// PriceBounds returns the lowest and highest price in products.
func PriceBounds(products []domain.Product) (decimal.Decimal, decimal.Decimal) {
	if len(products) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	return lo, hi
}
