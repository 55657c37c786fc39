package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfline/bookmarket/internal/book"
)

var (
	ErrNotInWishlist     = errors.New("book not in wishlist")
	ErrAlreadyInWishlist = errors.New("book already in wishlist")
	ErrShareNotFound     = errors.New("shared wishlist not found or expired")
)

type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Add(ctx context.Context, e *Entry) error
	Remove(ctx context.Context, userID, bookID uuid.UUID) error
	Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	SetNotify(ctx context.Context, userID, bookID uuid.UUID, notify bool) (*Entry, error)
	CreateShare(ctx context.Context, s *Share) error
	GetShareByCode(ctx context.Context, code string) (*Share, error)
	ListShares(ctx context.Context, userID uuid.UUID) ([]Share, error)
	DeleteShare(ctx context.Context, userID uuid.UUID, code string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT w.id, w.user_id, w.book_id, w.price_when_added_cents, w.notify_on_price_drop, w.added_at,
		       b.id, b.title, b.description, b.price_cents, b.stock, b.image_url, b.seller_id, b.seller_name, b.created_at, b.updated_at
		FROM wishlist w
		JOIN books b ON b.id = w.book_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query wishlist for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var b book.Book
		err := rows.Scan(
			&e.ID, &e.UserID, &e.BookID, &e.PriceWhenAdded, &e.NotifyOnPriceDrop, &e.AddedAt,
			&b.ID, &b.Title, &b.Description, &b.Price, &b.Stock, &b.ImageURL, &b.SellerID, &b.SellerName, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan wishlist entry: %w", err)
		}
		e.Book = &b
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating wishlist entries: %w", err)
	}

	return entries, nil
}

func (r *postgresRepository) Add(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate wishlist id: %w", err)
		}
		e.ID = id
	}
	e.AddedAt = time.Now().UTC()

	query := `
		INSERT INTO wishlist (id, user_id, book_id, price_when_added_cents, notify_on_price_drop, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, e.ID, e.UserID, e.BookID, int64(e.PriceWhenAdded), e.NotifyOnPriceDrop, e.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyInWishlist
		}
		return fmt.Errorf("repository: failed to insert wishlist entry: %w", err)
	}

	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete wishlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotInWishlist
	}

	return nil
}

func (r *postgresRepository) Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository: failed to check wishlist entry: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) SetNotify(ctx context.Context, userID, bookID uuid.UUID, notify bool) (*Entry, error) {
	query := `
		UPDATE wishlist
		SET notify_on_price_drop = $1
		WHERE user_id = $2 AND book_id = $3
		RETURNING id, user_id, book_id, price_when_added_cents, notify_on_price_drop, added_at
	`

	var e Entry
	err := r.db.QueryRow(ctx, query, notify, userID, bookID).Scan(
		&e.ID, &e.UserID, &e.BookID, &e.PriceWhenAdded, &e.NotifyOnPriceDrop, &e.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotInWishlist
		}
		return nil, fmt.Errorf("repository: failed to update wishlist notification flag: %w", err)
	}

	return &e, nil
}

func (r *postgresRepository) CreateShare(ctx context.Context, s *Share) error {
	if s.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate share id: %w", err)
		}
		s.ID = id
	}
	s.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO wishlist_shares (id, user_id, share_code, title, description, is_public, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, s.ID, s.UserID, s.ShareCode, s.Title, s.Description, s.IsPublic, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert wishlist share: %w", err)
	}

	return nil
}

// GetShareByCode resolves an unexpired share together with its owner's name.
func (r *postgresRepository) GetShareByCode(ctx context.Context, code string) (*Share, error) {
	query := `
		SELECT ws.id, ws.user_id, ws.share_code, ws.title, ws.description, ws.is_public, u.name, ws.created_at, ws.expires_at
		FROM wishlist_shares ws
		JOIN users u ON u.id = ws.user_id
		WHERE ws.share_code = $1 AND ws.expires_at > NOW()
	`

	var s Share
	err := r.db.QueryRow(ctx, query, code).Scan(
		&s.ID, &s.UserID, &s.ShareCode, &s.Title, &s.Description, &s.IsPublic, &s.OwnerName, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("repository: failed to select wishlist share: %w", err)
	}

	return &s, nil
}

func (r *postgresRepository) ListShares(ctx context.Context, userID uuid.UUID) ([]Share, error) {
	query := `
		SELECT id, user_id, share_code, title, description, is_public, created_at, expires_at
		FROM wishlist_shares
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query wishlist shares for user %s: %w", userID, err)
	}
	defer rows.Close()

	shares := make([]Share, 0)
	for rows.Next() {
		var s Share
		if err := rows.Scan(&s.ID, &s.UserID, &s.ShareCode, &s.Title, &s.Description, &s.IsPublic, &s.CreatedAt, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan wishlist share: %w", err)
		}
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating wishlist shares: %w", err)
	}

	return shares, nil
}

func (r *postgresRepository) DeleteShare(ctx context.Context, userID uuid.UUID, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM wishlist_shares WHERE user_id = $1 AND share_code = $2`, userID, code)
	if err != nil {
		return fmt.Errorf("repository: failed to delete wishlist share: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrShareNotFound
	}

	return nil
}
