package wishlist

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/shelfline/bookmarket/internal/book"
	"github.com/shelfline/bookmarket/internal/money"
)

// Entry is one wishlisted book. PriceWhenAdded is snapshotted so the price
// drop job can compare against the catalog price later.
type Entry struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"userId"`
	BookID            uuid.UUID   `json:"bookId"`
	PriceWhenAdded    money.Cents `json:"priceWhenAdded"`
	NotifyOnPriceDrop bool        `json:"notifyOnPriceDrop"`
	AddedAt           time.Time   `json:"addedAt"`
	Book              *book.Book  `json:"book,omitempty"`
}

// Share grants read access to a wishlist through an opaque code.
type Share struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	ShareCode   string    `json:"shareCode"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	OwnerName   string    `json:"ownerName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SharedView is what an anonymous visitor sees when opening a share code.
type SharedView struct {
	Share Share   `json:"share"`
	Items []Entry `json:"items"`
}
