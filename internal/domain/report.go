package domain

import "time"

type ReportFormat string

const (
	ReportCSV  ReportFormat = "csv"
	ReportJSON ReportFormat = "json"
)

func (f ReportFormat) IsValid() bool {
	return f == ReportCSV || f == ReportJSON
}

type InventoryReport struct {
	ID          string       `json:"id"`
	Format      ReportFormat `json:"format"`
	ObjectKey   string       `json:"object_key"`
	URL         string       `json:"url"`
	ProductRows int          `json:"product_rows"`
	GeneratedAt time.Time    `json:"generated_at"`
}

type InventorySummary struct {
	TotalProducts   int64      `json:"total_products" db:"total_products"`
	TotalUnits      int64      `json:"total_units" db:"total_units"`
	LowStockCount   int64      `json:"low_stock_count" db:"low_stock_count"`
	TotalWarehouses int64      `json:"total_warehouses" db:"total_warehouses"`
	PendingOrders   int64      `json:"pending_orders" db:"pending_orders"`
	InventoryValue  float64    `json:"inventory_value" db:"inventory_value"`
	LastOrderAt     *time.Time `json:"last_order_at" db:"last_order_at"`
}
