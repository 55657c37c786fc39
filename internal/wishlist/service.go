package wishlist

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/book"
)

// ErrSharePrivate is returned when a visitor opens a share that its owner has
// marked non-public.
var ErrSharePrivate = errors.New("this wishlist is private")

const (
	defaultShareExpiryDays = 30
	maxShareExpiryDays     = 365
)

// ShareInput carries the owner-supplied fields of a new share.
type ShareInput struct {
	Title         string
	Description   string
	IsPublic      bool
	ExpiresInDays int
}

type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Add(ctx context.Context, userID, bookID uuid.UUID, notifyOnPriceDrop bool) (*Entry, error)
	Remove(ctx context.Context, userID, bookID uuid.UUID) error
	Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	SetNotify(ctx context.Context, userID, bookID uuid.UUID, notify bool) (*Entry, error)
	CreateShare(ctx context.Context, userID uuid.UUID, input ShareInput) (*Share, error)
	GetShared(ctx context.Context, code string) (*SharedView, error)
	ListShares(ctx context.Context, userID uuid.UUID) ([]Share, error)
	DeleteShare(ctx context.Context, userID uuid.UUID, code string) error
}

type service struct {
	repo  Repository
	books book.Repository
}

func NewService(repo Repository, books book.Repository) Service {
	return &service{repo: repo, books: books}
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list wishlist")
		return nil, fmt.Errorf("service: failed to list wishlist: %w", err)
	}
	return entries, nil
}

// Add snapshots the book's current price so later drops can be detected.
func (s *service) Add(ctx context.Context, userID, bookID uuid.UUID, notifyOnPriceDrop bool) (*Entry, error) {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return nil, book.ErrNotFound
		}
		log.Error().Err(err).Stringer("book_id", bookID).Msg("service: failed to fetch book for wishlist add")
		return nil, fmt.Errorf("service: failed to fetch book: %w", err)
	}

	e := &Entry{
		UserID:            userID,
		BookID:            bookID,
		PriceWhenAdded:    b.Price,
		NotifyOnPriceDrop: notifyOnPriceDrop,
	}
	if err := s.repo.Add(ctx, e); err != nil {
		if errors.Is(err, ErrAlreadyInWishlist) {
			return nil, ErrAlreadyInWishlist
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("book_id", bookID).Msg("service: failed to add wishlist entry")
		return nil, fmt.Errorf("service: failed to add wishlist entry: %w", err)
	}

	e.Book = b
	return e, nil
}

func (s *service) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, bookID); err != nil {
		if errors.Is(err, ErrNotInWishlist) {
			return ErrNotInWishlist
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("book_id", bookID).Msg("service: failed to remove wishlist entry")
		return fmt.Errorf("service: failed to remove wishlist entry: %w", err)
	}
	return nil
}

func (s *service) Contains(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	found, err := s.repo.Contains(ctx, userID, bookID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("book_id", bookID).Msg("service: failed to check wishlist entry")
		return false, fmt.Errorf("service: failed to check wishlist entry: %w", err)
	}
	return found, nil
}

func (s *service) SetNotify(ctx context.Context, userID, bookID uuid.UUID, notify bool) (*Entry, error) {
	e, err := s.repo.SetNotify(ctx, userID, bookID, notify)
	if err != nil {
		if errors.Is(err, ErrNotInWishlist) {
			return nil, ErrNotInWishlist
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("book_id", bookID).Msg("service: failed to update notification flag")
		return nil, fmt.Errorf("service: failed to update notification flag: %w", err)
	}
	return e, nil
}

func (s *service) CreateShare(ctx context.Context, userID uuid.UUID, input ShareInput) (*Share, error) {
	days := input.ExpiresInDays
	if days <= 0 {
		days = defaultShareExpiryDays
	}
	if days > maxShareExpiryDays {
		days = maxShareExpiryDays
	}

	code, err := newShareCode()
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	share := &Share{
		UserID:      userID,
		ShareCode:   code,
		Title:       input.Title,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		ExpiresAt:   time.Now().UTC().AddDate(0, 0, days),
	}
	if err := s.repo.CreateShare(ctx, share); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to create wishlist share")
		return nil, fmt.Errorf("service: failed to create wishlist share: %w", err)
	}

	log.Info().Stringer("user_id", userID).Str("share_code", code).Msg("service: wishlist share created")
	return share, nil
}

func (s *service) GetShared(ctx context.Context, code string) (*SharedView, error) {
	share, err := s.repo.GetShareByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrShareNotFound) {
			return nil, ErrShareNotFound
		}
		log.Error().Err(err).Msg("service: failed to resolve share code")
		return nil, fmt.Errorf("service: failed to resolve share code: %w", err)
	}

	if !share.IsPublic {
		return nil, ErrSharePrivate
	}

	items, err := s.repo.List(ctx, share.UserID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", share.UserID).Msg("service: failed to load shared wishlist items")
		return nil, fmt.Errorf("service: failed to load shared wishlist items: %w", err)
	}

	return &SharedView{Share: *share, Items: items}, nil
}

func (s *service) ListShares(ctx context.Context, userID uuid.UUID) ([]Share, error) {
	shares, err := s.repo.ListShares(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list wishlist shares")
		return nil, fmt.Errorf("service: failed to list wishlist shares: %w", err)
	}
	return shares, nil
}

func (s *service) DeleteShare(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.repo.DeleteShare(ctx, userID, code); err != nil {
		if errors.Is(err, ErrShareNotFound) {
			return ErrShareNotFound
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to delete wishlist share")
		return fmt.Errorf("service: failed to delete wishlist share: %w", err)
	}
	return nil
}

// newShareCode returns a 32-character hex code from 16 random bytes.
func newShareCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
