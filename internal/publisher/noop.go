package publisher

import (
	"context"
	"log/slog"
)

// Noop logs events instead of sending them. Used when no brokers are configured.
type Noop struct {
	log *slog.Logger
}

func NewNoop(log *slog.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) PublishCheckoutConfirmed(ctx context.Context, evt CheckoutConfirmed) error {
	n.log.DebugContext(ctx, "event::"+EventCheckoutConfirmed, "draft_id", evt.DraftID, "order_number", evt.OrderNumber)
	return nil
}

func (n *Noop) Close() error { return nil }
