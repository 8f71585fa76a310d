package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"warehouse-manager/internal/domain"
)

type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *domain.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Warehouse, int64, error)
	CreateZone(ctx context.Context, zone *domain.Zone) error
	GetZone(ctx context.Context, id uuid.UUID) (*domain.Zone, error)
	ListZones(ctx context.Context, warehouseID uuid.UUID) ([]domain.Zone, error)
}

type warehouseRepository struct {
	db *sqlx.DB
}

func NewWarehouseRepository(db *sqlx.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(ctx context.Context, warehouse *domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, code, name, address, capacity, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		warehouse.ID, warehouse.Code, warehouse.Name, warehouse.Address,
		warehouse.Capacity, warehouse.CreatedBy,
	).Scan(&warehouse.CreatedAt, &warehouse.UpdatedAt)
}

func (r *warehouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	query := `SELECT * FROM warehouses WHERE id = $1`

	err := r.db.GetContext(ctx, &warehouse, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM warehouses WHERE UPPER(code) = UPPER($1))`
	err := r.db.GetContext(ctx, &exists, query, code)
	return exists, err
}

func (r *warehouseRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Warehouse, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM warehouses`); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM warehouses
		ORDER BY code
		LIMIT $1 OFFSET $2`

	var warehouses []domain.Warehouse
	err := r.db.SelectContext(ctx, &warehouses, query, params.PageSize, params.Offset())
	return warehouses, total, err
}

func (r *warehouseRepository) CreateZone(ctx context.Context, zone *domain.Zone) error {
	query := `
		INSERT INTO zones (id, warehouse_id, name, type, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		zone.ID, zone.WarehouseID, zone.Name, zone.Type, zone.Capacity,
	).Scan(&zone.CreatedAt)
}

func (r *warehouseRepository) GetZone(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	var zone domain.Zone
	query := `SELECT * FROM zones WHERE id = $1`

	err := r.db.GetContext(ctx, &zone, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *warehouseRepository) ListZones(ctx context.Context, warehouseID uuid.UUID) ([]domain.Zone, error) {
	query := `SELECT * FROM zones WHERE warehouse_id = $1 ORDER BY name`

	var zones []domain.Zone
	err := r.db.SelectContext(ctx, &zones, query, warehouseID)
	return zones, err
}
