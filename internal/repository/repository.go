package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Product      ProductRepository
	Order        OrderRepository
	Warehouse    WarehouseRepository
	Report       ReportRepository
	Movement     StockMovementRepository
	Notification NotificationRepository
	Settings     SettingsRepository
}

// NewRepositories wires the postgres and redis repositories. The notification
// store defaults to postgres; callers swap in the mongo one with WithNotificationStore.
func NewRepositories(db *sqlx.DB, rdb redis.UniversalClient, opts ...Option) *Repositories {
	repos := &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Product:      NewProductRepository(db),
		Order:        NewOrderRepository(db),
		Warehouse:    NewWarehouseRepository(db),
		Report:       NewReportRepository(db),
		Movement:     NewStockMovementRepository(db),
		Notification: NewNotificationRepository(db),
		Settings:     NewSettingsRepository(rdb),
	}
	for _, opt := range opts {
		opt(repos)
	}
	return repos
}

type Option func(*Repositories)

func WithNotificationStore(store NotificationRepository) Option {
	return func(r *Repositories) {
		r.Notification = store
	}
}
