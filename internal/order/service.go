package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, lines []CartLine) (*Checkout, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID, sellerID uuid.UUID, newStatus Status) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, lines []CartLine) (*Checkout, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range lines {
		if line.BookID == uuid.Nil {
			return nil, fmt.Errorf("%w: missing book id", ErrInvalidLine)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for book %s must be greater than zero", ErrInvalidLine, line.BookID)
		}
	}

	checkout, err := s.repo.PlaceOrder(ctx, buyerID, lines)
	if err != nil {
		var notFound *BookNotFoundError
		var shortStock *InsufficientStockError
		switch {
		case errors.As(err, &notFound), errors.As(err, &shortStock):
			log.Warn().Err(err).Stringer("buyer_id", buyerID).Msg("service: checkout rejected")
			return nil, err
		}
		log.Error().Err(err).Stringer("buyer_id", buyerID).Msg("service: failed to place order")
		return nil, fmt.Errorf("service: failed to place order: %w", err)
	}

	log.Info().
		Stringer("buyer_id", buyerID).
		Int("orders", len(checkout.Orders)).
		Stringer("total", checkout.TotalAmount).
		Msg("service: checkout completed")
	return checkout, nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		log.Error().Err(err).Stringer("buyer_id", buyerID).Msg("service: failed to list buyer orders")
		return nil, fmt.Errorf("service: failed to list buyer orders: %w", err)
	}
	return orders, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		log.Error().Err(err).Stringer("seller_id", sellerID).Msg("service: failed to list seller orders")
		return nil, fmt.Errorf("service: failed to list seller orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets an order's status to any member of the status enum. The
// repeated update with the same status is a no-op success.
func (s *service) UpdateStatus(ctx context.Context, orderID, sellerID uuid.UUID, newStatus Status) (*Order, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to fetch order for status update")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	if current.SellerID != sellerID {
		log.Warn().Stringer("order_id", orderID).Stringer("seller_id", sellerID).Msg("service: seller does not own order")
		return nil, ErrNotOrderOwner
	}

	if current.Status == newStatus {
		return current, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Str("new_status", newStatus.String()).Msg("service: failed to update order status")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().
		Stringer("order_id", orderID).
		Str("old_status", current.Status.String()).
		Str("new_status", newStatus.String()).
		Msg("service: order status updated")
	return updated, nil
}
