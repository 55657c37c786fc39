package order

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotOrderOwner = errors.New("order belongs to another seller")
	ErrEmptyCart     = errors.New("order must contain at least one item")
	ErrInvalidLine   = errors.New("invalid cart line")
	ErrInvalidStatus = errors.New("invalid order status")
)

// BookNotFoundError names the cart line whose book id does not exist.
type BookNotFoundError struct {
	BookID uuid.UUID
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %s not found", e.BookID)
}

// InsufficientStockError names the first cart line whose requested quantity
// exceeds the available stock.
type InsufficientStockError struct {
	BookID    uuid.UUID
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %q: requested %d, available %d", e.Title, e.Requested, e.Available)
}
