package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"warehouse-manager/internal/domain"
)

type ProductFilter struct {
	WarehouseID *uuid.UUID
	LowStock    bool
	Search      string
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProductFilter, params domain.PaginationParams) ([]domain.Product, int64, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error)
}

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, warehouse_id, zone_id, sku, name, description,
			quantity, reorder_level, unit_price, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		product.ID, product.WarehouseID, product.ZoneID, product.SKU, product.Name,
		product.Description, product.Quantity, product.ReorderLevel, product.UnitPrice,
		product.CreatedBy,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT * FROM products WHERE id = $1`

	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE UPPER(sku) = UPPER($1))`
	err := r.db.GetContext(ctx, &exists, query, sku)
	return exists, err
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET warehouse_id = $2, zone_id = $3, name = $4, description = $5,
			reorder_level = $6, unit_price = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		product.ID, product.WarehouseID, product.ZoneID, product.Name,
		product.Description, product.ReorderLevel, product.UnitPrice,
	).Scan(&product.UpdatedAt)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, params domain.PaginationParams) ([]domain.Product, int64, error) {
	params.Validate()

	where := `
		WHERE ($1::uuid IS NULL OR warehouse_id = $1)
			AND (NOT $2 OR (reorder_level > 0 AND quantity <= reorder_level))
			AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR sku ILIKE '%' || $3 || '%')`

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`+where,
		filter.WarehouseID, filter.LowStock, filter.Search); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM products` + where + `
		ORDER BY name, sku
		LIMIT $4 OFFSET $5`

	var products []domain.Product
	err := r.db.SelectContext(ctx, &products, query,
		filter.WarehouseID, filter.LowStock, filter.Search, params.PageSize, params.Offset())
	return products, total, err
}

func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT * FROM products ORDER BY sku`

	var products []domain.Product
	err := r.db.SelectContext(ctx, &products, query)
	return products, err
}

// AdjustQuantity applies delta atomically. It returns domain.ErrInsufficientStock
// when the result would go negative and nil, nil when the product does not exist.
func (r *productRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error) {
	var product domain.Product
	query := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING *`

	err := r.db.GetContext(ctx, &product, query, id, delta)
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, nil
		}
		return nil, domain.ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
