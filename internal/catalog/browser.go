package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	ErrNoMorePages = errors.New("no more pages")
	ErrPageLoading = errors.New("next page is already loading")
)

// DelayFunc runs between hiding the current page and showing the next one.
// It is cosmetic and has no effect on page contents.
type DelayFunc func(ctx context.Context) error

// SleepDelay waits d or until ctx is done.
func SleepDelay(d time.Duration) DelayFunc {
	return func(ctx context.Context) error {
		if d <= 0 {
			return nil
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// View is what the catalog screen renders.
type View struct {
	Criteria Criteria `json:"-"`
	Search   string   `json:"search"`
	Loading  bool     `json:"loading"`
	Page
}

// Browser keeps the shopper's criteria, search and page over a product set.
type Browser struct {
	mu       sync.Mutex
	products []domain.Product
	criteria Criteria
	search   string
	page     int
	pageSize int
	visible  Page
	loading  bool
	delay    DelayFunc
	gen      uint64 // bumped whenever products, criteria or search change
}

func NewBrowser(delay DelayFunc) *Browser {
	b := &Browser{
		criteria: DefaultCriteria(),
		page:     1,
		pageSize: PageSize,
		delay:    delay,
	}
	b.recompute()
	return b
}

// SetProducts replaces the catalog and goes back to the first page.
func (b *Browser) SetProducts(products []domain.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = products
	b.page = 1
	b.gen++
	b.recompute()
}

func (b *Browser) SetCriteria(c Criteria) error {
	if c.Sort == "" {
		c.Sort = SortFeatured
	}
	if err := c.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.criteria = c
	b.page = 1
	b.gen++
	b.recompute()
	return nil
}

func (b *Browser) SetSearch(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.search = term
	b.page = 1
	b.gen++
	b.recompute()
}

// NextPage clears the visible slice, waits on the delay hook and then shows
// the following page. A cancelled delay, or a criteria change while waiting,
// leaves the page where it is. Only one advance runs at a time; an overlapping
// call gets ErrPageLoading.
func (b *Browser) NextPage(ctx context.Context) (View, error) {
	b.mu.Lock()
	if b.loading {
		v := b.viewLocked()
		b.mu.Unlock()
		return v, ErrPageLoading
	}
	if !b.visible.HasMore {
		v := b.viewLocked()
		b.mu.Unlock()
		return v, ErrNoMorePages
	}
	b.loading = true
	b.visible.Items = nil
	delay := b.delay
	gen := b.gen
	b.mu.Unlock()

	var delayErr error
	if delay != nil {
		delayErr = delay(ctx)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if delayErr == nil && gen == b.gen {
		b.page++
	}
	b.recompute()
	return b.viewLocked(), delayErr
}

func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Browser) Criteria() Criteria {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.criteria
}

func (b *Browser) viewLocked() View {
	return View{
		Criteria: b.criteria,
		Search:   b.search,
		Loading:  b.loading,
		Page:     b.visible,
	}
}

func (b *Browser) recompute() {
	b.visible = Derive(b.products, b.criteria, b.search, b.page, b.pageSize)
}
