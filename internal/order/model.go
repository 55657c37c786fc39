package order

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/shelfline/bookmarket/internal/money"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the five known statuses. Transitions are
// not constrained beyond membership in this set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CartLine is one requested (book, quantity) pair of a checkout.
type CartLine struct {
	BookID   uuid.UUID `json:"bookId"`
	Quantity int       `json:"quantity"`
}

// Item is a persisted order line. Price is the per-unit price snapshotted at
// purchase time; later catalog price changes do not touch it.
type Item struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   uuid.UUID   `json:"orderId"`
	BookID    uuid.UUID   `json:"bookId"`
	Title     string      `json:"title"`
	Quantity  int         `json:"quantity"`
	Price     money.Cents `json:"price"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Order is a single-seller record. A checkout spanning N sellers creates N
// of these.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	BuyerID     uuid.UUID   `json:"buyerId"`
	BuyerName   string      `json:"buyerName,omitempty"`
	SellerID    uuid.UUID   `json:"sellerId"`
	SellerName  string      `json:"sellerName,omitempty"`
	TotalAmount money.Cents `json:"totalAmount"`
	Status      Status      `json:"status"`
	Items       []Item      `json:"items"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Checkout is the result of placing one cart: the per-seller orders plus the
// grand total across all of them.
type Checkout struct {
	Orders      []Order     `json:"orders"`
	TotalAmount money.Cents `json:"totalAmount"`
}
