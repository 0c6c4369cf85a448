package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	m          sync.Mutex
	products   []domain.Product
	categories []domain.Category
	err        error
	calls      atomic.Int32
	block      chan struct{}
}

func (s *mockSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *mockSource) ListCategories(context.Context) ([]domain.Category, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.categories, nil
}

func TestLoader_Load(t *testing.T) {
	src := &mockSource{
		products:   sampleCatalog(),
		categories: []domain.Category{{ID: 1, Name: "Mugs"}},
	}
	l := NewLoader(src, logger.Discard())
	assert.Equal(t, LoadIdle, l.State().Status)

	state, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadReady, state.Status)
	assert.Len(t, state.Products, 5)
	assert.Len(t, state.Categories, 1)
	assert.False(t, state.LoadedAt.IsZero())
}

func TestLoader_FailureKeepsLastGoodCatalog(t *testing.T) {
	src := &mockSource{products: sampleCatalog()}
	l := NewLoader(src, logger.Discard())
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	src.m.Lock()
	src.err = &domain.NetworkError{Op: "GET /products", Err: errors.New("connection refused")}
	src.m.Unlock()

	state, err := l.Load(context.Background())
	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Equal(t, LoadFailed, state.Status)
	assert.Equal(t, loadFailedMessage, state.Message)
	assert.Len(t, state.Products, 5)

	// manual retry
	src.m.Lock()
	src.err = nil
	src.m.Unlock()
	state, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadReady, state.Status)
	assert.Empty(t, state.Message)
}

func TestLoader_ConcurrentLoadsShareOneCall(t *testing.T) {
	src := &mockSource{products: sampleCatalog(), block: make(chan struct{})}
	l := NewLoader(src, logger.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background())
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.block)
	wg.Wait()

	assert.Less(t, src.calls.Load(), int32(5))
}

func TestLoader_CallerGivingUpDoesNotFailSharedLoad(t *testing.T) {
	src := &mockSource{products: sampleCatalog(), block: make(chan struct{})}
	l := NewLoader(src, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	impatient := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx)
		impatient <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	patient := make(chan LoadState, 1)
	go func() {
		state, err := l.Load(context.Background())
		assert.NoError(t, err)
		patient <- state
	}()

	cancel()
	select {
	case err := <-impatient:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the load")
	}

	close(src.block)
	state := <-patient
	assert.Equal(t, LoadReady, state.Status)
	assert.Len(t, state.Products, 5)
	assert.Equal(t, LoadReady, l.State().Status)
}

func TestLoader_TimeoutFailsLoad(t *testing.T) {
	src := &mockSource{products: sampleCatalog(), block: make(chan struct{})}
	l := NewLoader(src, logger.Discard())
	l.timeout = 20 * time.Millisecond
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(src.block)
	}()

	state, err := l.Load(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, LoadFailed, state.Status)
}

func TestPriceBounds(t *testing.T) {
	lo, hi := PriceBounds(sampleCatalog())
	assert.True(t, lo.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, hi.Equal(decimal.NewFromInt(45)))

	lo, hi = PriceBounds(nil)
	assert.True(t, lo.IsZero())
	assert.True(t, hi.IsZero())
}
