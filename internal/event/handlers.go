package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event", slog.Any("event", ev))
	return nil
}

func (s *Service) handleStockReservedEvent(ctx context.Context, ev StockReservedEvent) error {
	if ev.RemainingStock <= s.cfg.LowStockThreshold {
		s.logger.WarnContext(ctx, "product stock is running low",
			slog.String("product_id", ev.ProductID),
			slog.Int("remaining_stock", ev.RemainingStock),
			slog.Int("threshold", s.cfg.LowStockThreshold),
		)
		return nil
	}

	s.logger.InfoContext(ctx, "handling stock reserved event", slog.Any("event", ev))
	return nil
}
