package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"warehouse-manager/internal/domain"
)

type ReportRepository interface {
	InventorySummary(ctx context.Context) (*domain.InventorySummary, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) InventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	var summary domain.InventorySummary
	query := `
		SELECT
			(SELECT COUNT(*) FROM products) AS total_products,
			(SELECT COALESCE(SUM(quantity), 0) FROM products) AS total_units,
			(SELECT COUNT(*) FROM products WHERE reorder_level > 0 AND quantity <= reorder_level) AS low_stock_count,
			(SELECT COUNT(*) FROM warehouses) AS total_warehouses,
			(SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
			(SELECT COALESCE(SUM(quantity * unit_price), 0) FROM products) AS inventory_value,
			(SELECT MAX(created_at) FROM orders) AS last_order_at`

	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, err
	}
	return &summary, nil
}
