package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/money"
)

// ErrNotOwner is returned when a seller touches a book listed by someone else.
var ErrNotOwner = errors.New("book belongs to another seller")

// CreateInput carries the seller-supplied fields of a new listing.
type CreateInput struct {
	Title       string
	Description string
	Price       money.Cents
	Stock       int
	ImageURL    string
}

// UpdateInput carries a partial update; nil fields keep their current value.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *money.Cents
	Stock       *int
	ImageURL    *string
}

type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, sellerName string, input CreateInput) (*Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Book, error)
	Update(ctx context.Context, id, sellerID uuid.UUID, input UpdateInput) (*Book, error)
	Delete(ctx context.Context, id, sellerID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, sellerName string, input CreateInput) (*Book, error) {
	if input.Price <= 0 {
		return nil, errors.New("service: price must be positive")
	}
	if input.Stock < 0 {
		return nil, errors.New("service: stock cannot be negative")
	}

	b := &Book{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		SellerID:    sellerID,
		SellerName:  sellerName,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		log.Error().Err(err).Stringer("seller_id", sellerID).Msg("service: failed to create book")
		return nil, fmt.Errorf("service: failed to create book: %w", err)
	}

	log.Info().Stringer("book_id", b.ID).Stringer("seller_id", sellerID).Msg("service: book created")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("book_id", id).Msg("service: failed to fetch book")
		return nil, fmt.Errorf("service: failed to fetch book: %w", err)
	}
	return b, nil
}

func (s *service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list books")
		return nil, fmt.Errorf("service: failed to list books: %w", err)
	}
	return books, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Book, error) {
	books, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		log.Error().Err(err).Stringer("seller_id", sellerID).Msg("service: failed to list seller books")
		return nil, fmt.Errorf("service: failed to list seller books: %w", err)
	}
	return books, nil
}

func (s *service) Update(ctx context.Context, id, sellerID uuid.UUID, input UpdateInput) (*Book, error) {
	b, err := s.ownedBook(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		b.Title = *input.Title
	}
	if input.Description != nil {
		b.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, errors.New("service: price must be positive")
		}
		b.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, errors.New("service: stock cannot be negative")
		}
		b.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		b.ImageURL = *input.ImageURL
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("book_id", id).Msg("service: failed to update book")
		return nil, fmt.Errorf("service: failed to update book: %w", err)
	}

	log.Info().Stringer("book_id", id).Stringer("seller_id", sellerID).Msg("service: book updated")
	return b, nil
}

func (s *service) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	if _, err := s.ownedBook(ctx, id, sellerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("book_id", id).Msg("service: failed to delete book")
		return fmt.Errorf("service: failed to delete book: %w", err)
	}

	log.Info().Stringer("book_id", id).Stringer("seller_id", sellerID).Msg("service: book deleted")
	return nil
}

func (s *service) ownedBook(ctx context.Context, id, sellerID uuid.UUID) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("book_id", id).Msg("service: failed to fetch book for ownership check")
		return nil, fmt.Errorf("service: failed to fetch book: %w", err)
	}
	if b.SellerID != sellerID {
		log.Warn().Stringer("book_id", id).Stringer("seller_id", sellerID).Msg("service: seller does not own book")
		return nil, ErrNotOwner
	}
	return b, nil
}
