package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"warehouse-manager/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, order *domain.Order, status domain.OrderStatus) error
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order with its items and reserves stock in one transaction.
// It returns domain.ErrInsufficientStock if any line cannot be covered.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO orders (id, order_number, customer_name, status, total, notes, created_by)
		VALUES ($1, 'ORD-' || nextval('order_number_seq'), $2, $3, $4, $5, $6)
		RETURNING order_number, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		order.ID, order.CustomerName, order.Status, order.Total, order.Notes, order.CreatedBy,
	).Scan(&order.OrderNumber, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $2, updated_at = NOW() WHERE id = $1 AND quantity >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrInsufficientStock
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
			item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &order.Items,
		`SELECT * FROM order_items WHERE order_id = $1`, id); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) ([]domain.Order, int64, error) {
	params.Validate()

	where := ` WHERE ($1::text IS NULL OR status = $1)`

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`+where, status); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM orders` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders, query, status, params.PageSize, params.Offset())
	return orders, total, err
}

// UpdateStatus moves the order to status. Cancelling returns the reserved stock.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order, status domain.OrderStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowxContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		order.ID, status,
	).Scan(&order.UpdatedAt)
	if err != nil {
		return err
	}

	if status == domain.OrderCancelled {
		_, err = tx.ExecContext(ctx, `
			UPDATE products p
			SET quantity = p.quantity + oi.quantity, updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id`, order.ID)
		if err != nil {
			return fmt.Errorf("failed to restock cancelled order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	order.Status = status
	return nil
}
