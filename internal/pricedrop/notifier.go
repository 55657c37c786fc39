// Package pricedrop implements the out-of-band batch job that tells wishlist
// owners when a book got cheaper. It never runs inside a request handler.
package pricedrop

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/money"
)

// renotifyAfter suppresses repeat notifications for the same wishlist entry.
const renotifyAfter = 24 * time.Hour

// Event is the message published for one detected price drop.
type Event struct {
	WishlistID uuid.UUID   `json:"wishlistId"`
	UserID     uuid.UUID   `json:"userId"`
	UserEmail  string      `json:"userEmail"`
	BookID     uuid.UUID   `json:"bookId"`
	Title      string      `json:"title"`
	OldPrice   money.Cents `json:"oldPrice"`
	NewPrice   money.Cents `json:"newPrice"`
	DetectedAt time.Time   `json:"detectedAt"`
}

type publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Notifier struct {
	db       *pgxpool.Pool
	producer publisher
}

func NewNotifier(db *pgxpool.Pool, producer publisher) *Notifier {
	return &Notifier{db: db, producer: producer}
}

// Run makes one pass over the wishlist: every opted-in entry whose book now
// costs less than it did when added produces one event, at most once per
// renotifyAfter window. It returns the number of events published.
func (n *Notifier) Run(ctx context.Context) (int, error) {
	query := `
		SELECT w.id, w.user_id, u.email, w.book_id, b.title, w.price_when_added_cents, b.price_cents
		FROM wishlist w
		JOIN books b ON b.id = w.book_id
		JOIN users u ON u.id = w.user_id
		WHERE w.notify_on_price_drop
		  AND b.price_cents < w.price_when_added_cents
		  AND (w.last_notified_at IS NULL OR w.last_notified_at < NOW() - make_interval(secs => $1))
	`

	rows, err := n.db.Query(ctx, query, renotifyAfter.Seconds())
	if err != nil {
		return 0, fmt.Errorf("notifier: failed to query price drops: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.WishlistID, &e.UserID, &e.UserEmail, &e.BookID, &e.Title, &e.OldPrice, &e.NewPrice); err != nil {
			return 0, fmt.Errorf("notifier: failed to scan price drop row: %w", err)
		}
		e.DetectedAt = time.Now().UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("notifier: error iterating price drop rows: %w", err)
	}

	if len(events) == 0 {
		log.Info().Msg("notifier: no price drops found")
		return 0, nil
	}

	published := 0
	for _, e := range events {
		if err := n.producer.Publish(ctx, e.UserID.String(), e); err != nil {
			log.Error().Err(err).Stringer("wishlist_id", e.WishlistID).Msg("notifier: failed to publish event")
			continue
		}

		if _, err := n.db.Exec(ctx,
			`UPDATE wishlist SET last_notified_at = NOW() WHERE id = $1`,
			e.WishlistID,
		); err != nil {
			return published, fmt.Errorf("notifier: failed to stamp wishlist entry %s: %w", e.WishlistID, err)
		}

		log.Info().
			Stringer("user_id", e.UserID).
			Str("title", e.Title).
			Stringer("old_price", e.OldPrice).
			Stringer("new_price", e.NewPrice).
			Msg("notifier: price drop published")
		published++
	}

	return published, nil
}
