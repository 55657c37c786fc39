package book

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/shelfline/bookmarket/internal/money"
)

type Book struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price"`
	Stock       int         `json:"stock"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	SellerID    uuid.UUID   `json:"sellerId"`
	SellerName  string      `json:"sellerName"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
