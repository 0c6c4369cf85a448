// Package stock checks cart quantities against availability right before an
// order is submitted.
package stock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type Backend interface {
	CheckStock(ctx context.Context, lines []api.StockLine) ([]string, error)
}

type Verifier struct {
	backend Backend
	log     *slog.Logger
}

func NewVerifier(backend Backend, log *slog.Logger) *Verifier {
	return &Verifier{backend: backend, log: log}
}

// Check returns nil when every line can be supplied, a
// *domain.StockConflictError naming the short items exactly as the server
// named them, or the backend error otherwise.
func (v *Verifier) Check(ctx context.Context, items []domain.CartItem) error {
	lines := make([]api.StockLine, len(items))
	for i, it := range items {
		lines[i] = api.StockLine{ProductID: it.Product.ID, Quantity: it.Quantity}
	}

	missing, err := v.backend.CheckStock(ctx, lines)
	if err != nil {
		v.log.WarnContext(ctx, "stock check failed", "lines", len(lines), "error", err)
		return fmt.Errorf("stock check: %w", err)
	}
	if len(missing) > 0 {
		v.log.InfoContext(ctx, "stock conflict", "items", missing)
		return &domain.StockConflictError{Items: missing}
	}
	return nil
}
