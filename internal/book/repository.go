package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("book not found")

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const bookColumns = `id, title, description, price_cents, stock, image_url, seller_id, seller_name, created_at, updated_at`

func scanBook(row pgx.Row, b *Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Description, &b.Price, &b.Stock, &b.ImageURL, &b.SellerID, &b.SellerName, &b.CreatedAt, &b.UpdatedAt)
}

func (r *postgresRepository) Create(ctx context.Context, b *Book) error {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate book id: %w", err)
		}
		b.ID = id
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
		INSERT INTO books (id, title, description, price_cents, stock, image_url, seller_id, seller_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.Title, b.Description, int64(b.Price), b.Stock, b.ImageURL, b.SellerID, b.SellerName, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var b Book
	if err := scanBook(r.db.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select book by id %s: %w", id, err)
	}

	return &b, nil
}

// List returns only books with stock available, newest first.
func (r *postgresRepository) List(ctx context.Context) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE stock > 0 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

func (r *postgresRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE seller_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query books for seller %s: %w", sellerID, err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

func (r *postgresRepository) Update(ctx context.Context, b *Book) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE books
		SET title = $1, description = $2, price_cents = $3, stock = $4, image_url = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query, b.Title, b.Description, int64(b.Price), b.Stock, b.ImageURL, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update book %s: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete book %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	books := make([]Book, 0)
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("repository: failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating books: %w", err)
	}

	return books, nil
}
