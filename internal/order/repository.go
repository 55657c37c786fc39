package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfline/bookmarket/internal/money"
)

type Repository interface {
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, lines []CartLine) (*Checkout, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) (*Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// PlaceOrder runs the whole checkout as one transaction: lock the cart's book
// rows, validate stock, decrement it, then insert one order per seller with
// its items. Any failure rolls everything back, so a failed call leaves stock
// and order tables untouched.
func (r *postgresRepository) PlaceOrder(ctx context.Context, buyerID uuid.UUID, lines []CartLine) (*Checkout, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	books, err := lockBooks(ctx, tx, lines)
	if err != nil {
		return nil, err
	}

	// Validate each line against the locked rows, in input order so the first
	// offending line is the one reported. Remaining stock is tracked locally
	// so duplicate book lines accumulate.
	priced := make([]pricedLine, 0, len(lines))
	for _, line := range lines {
		b := books[line.BookID]
		if b.stock < line.Quantity {
			return nil, &InsufficientStockError{
				BookID:    line.BookID,
				Title:     b.title,
				Requested: line.Quantity,
				Available: b.stock,
			}
		}
		b.stock -= line.Quantity
		priced = append(priced, pricedLine{
			BookID:   line.BookID,
			Title:    b.title,
			Quantity: line.Quantity,
			Price:    b.price,
			SellerID: b.sellerID,
		})
	}

	now := time.Now().UTC()
	for id, b := range books {
		taken := b.initialStock - b.stock
		if taken == 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE books SET stock = stock - $2, updated_at = $3 WHERE id = $1`,
			id, taken, now,
		); err != nil {
			return nil, fmt.Errorf("repository: failed to decrement stock for book %s: %w", id, err)
		}
	}

	checkout := &Checkout{Orders: make([]Order, 0, 1)}
	for _, group := range groupBySeller(priced) {
		ord, err := insertOrder(ctx, tx, buyerID, group, now)
		if err != nil {
			return nil, err
		}
		checkout.Orders = append(checkout.Orders, *ord)
		checkout.TotalAmount += group.Total
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit transaction: %w", err)
	}

	return checkout, nil
}

type lockedBook struct {
	title        string
	price        money.Cents
	stock        int
	initialStock int
	sellerID     uuid.UUID
}

// lockBooks acquires FOR UPDATE row locks on every distinct book of the cart.
// Ids are locked in sorted order so two overlapping carts cannot deadlock.
func lockBooks(ctx context.Context, tx pgx.Tx, lines []CartLine) (map[uuid.UUID]*lockedBook, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.BookID] {
			seen[line.BookID] = true
			ids = append(ids, line.BookID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	books := make(map[uuid.UUID]*lockedBook, len(ids))
	for _, id := range ids {
		var b lockedBook
		err := tx.QueryRow(ctx,
			`SELECT title, price_cents, stock, seller_id FROM books WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&b.title, &b.price, &b.stock, &b.sellerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &BookNotFoundError{BookID: id}
			}
			return nil, fmt.Errorf("repository: failed to lock book %s: %w", id, err)
		}
		b.initialStock = b.stock
		books[id] = &b
	}

	return books, nil
}

func insertOrder(ctx context.Context, tx pgx.Tx, buyerID uuid.UUID, group sellerGroup, now time.Time) (*Order, error) {
	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to generate order id: %w", err)
	}

	ord := &Order{
		ID:          orderID,
		BuyerID:     buyerID,
		SellerID:    group.SellerID,
		TotalAmount: group.Total,
		Status:      StatusPending,
		Items:       make([]Item, 0, len(group.Lines)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, buyer_id, seller_id, total_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ord.ID, ord.BuyerID, ord.SellerID, int64(ord.TotalAmount), string(ord.Status), ord.CreatedAt, ord.UpdatedAt); err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	for _, line := range group.Lines {
		itemID, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("repository: failed to generate order item id: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, book_id, quantity, price_cents, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, itemID, ord.ID, line.BookID, line.Quantity, int64(line.Price), now); err != nil {
			return nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", ord.ID, err)
		}

		ord.Items = append(ord.Items, Item{
			ID:        itemID,
			OrderID:   ord.ID,
			BookID:    line.BookID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			Price:     line.Price,
			CreatedAt: now,
		})
	}

	return ord, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, buyer_id, seller_id, total_cents, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var ord Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ord.ID, &ord.BuyerID, &ord.SellerID, &ord.TotalAmount, &ord.Status, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{ord.ID})
	if err != nil {
		return nil, err
	}
	ord.Items = items[ord.ID]
	if ord.Items == nil {
		ord.Items = []Item{}
	}

	return &ord, nil
}

func (r *postgresRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error) {
	query := `
		SELECT o.id, o.buyer_id, o.seller_id, u.name, o.total_cents, o.status, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.seller_id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC
	`
	return r.listOrders(ctx, query, buyerID, func(ord *Order, name string) { ord.SellerName = name })
}

func (r *postgresRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Order, error) {
	query := `
		SELECT o.id, o.buyer_id, o.seller_id, u.name, o.total_cents, o.status, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.buyer_id
		WHERE o.seller_id = $1
		ORDER BY o.created_at DESC
	`
	return r.listOrders(ctx, query, sellerID, func(ord *Order, name string) { ord.BuyerName = name })
}

func (r *postgresRepository) listOrders(ctx context.Context, query string, userID uuid.UUID, setName func(*Order, string)) ([]Order, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	orderIDs := make([]uuid.UUID, 0)

	for rows.Next() {
		var ord Order
		var name string
		if err := rows.Scan(&ord.ID, &ord.BuyerID, &ord.SellerID, &name, &ord.TotalAmount, &ord.Status, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user %s: %w", userID, err)
		}
		setName(&ord, name)
		ord.Items = []Item{}
		ordersMap[ord.ID] = &ord
		orderIDs = append(orderIDs, ord.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for user %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	items, err := r.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for orderID, orderItems := range items {
		if ord, ok := ordersMap[orderID]; ok {
			ord.Items = orderItems
		}
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *ordersMap[id])
	}

	return result, nil
}

// loadItems batch-fetches the items of all given orders in one query.
func (r *postgresRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]Item, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.book_id, b.title, oi.quantity, oi.price_cents, oi.created_at
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]Item)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title, &item.Quantity, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) (*Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, string(status), time.Now().UTC(), orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to update status of order %s: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrOrderNotFound
	}

	return r.GetByID(ctx, orderID)
}
