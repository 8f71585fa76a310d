package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"warehouse-manager/internal/domain"
)

type StockMovementRepository interface {
	Create(ctx context.Context, movement *domain.StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) ([]domain.StockMovement, int64, error)
}

type stockMovementRepository struct {
	db *sqlx.DB
}

func NewStockMovementRepository(db *sqlx.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, user_id, delta, quantity_after, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		movement.ID, movement.ProductID, movement.UserID,
		movement.Delta, movement.QuantityAfter, movement.Reason,
	).Scan(&movement.CreatedAt)
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) ([]domain.StockMovement, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, productID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			sm.*,
			u.full_name AS user_name
		FROM stock_movements sm
		LEFT JOIN users u ON sm.user_id = u.user_id
		WHERE sm.product_id = $1
		ORDER BY sm.created_at DESC
		LIMIT $2 OFFSET $3`

	var movements []domain.StockMovement
	err := r.db.SelectContext(ctx, &movements, query, productID, params.PageSize, params.Offset())
	return movements, total, err
}
