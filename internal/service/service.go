package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"warehouse-manager/internal/config"
	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/pkg/logger"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/auth"
	"warehouse-manager/internal/service/email"
	"warehouse-manager/internal/service/inventory"
	"warehouse-manager/internal/service/notification"
	"warehouse-manager/internal/service/order"
	"warehouse-manager/internal/service/report"
	"warehouse-manager/internal/service/warehouse"
)

type Services struct {
	Auth          auth.Service
	Inventory     inventory.Service
	Order         order.Service
	Warehouse     warehouse.Service
	Report        report.Service
	Email         email.Service
	Notifications *notification.Registry
}

func NewServices(repos *repository.Repositories, rdb redis.UniversalClient, minioClient *minio.Client, cfg *config.Config, log zerolog.Logger) *Services {
	emailService := email.NewService(cfg, repos.User)

	defaults := domain.DefaultNotificationSettings()
	defaults.ThrottleDurationMs = cfg.NotificationThrottle.Milliseconds()

	registry := notification.NewRegistry(repos.Notification, repos.Settings,
		notification.WithAlertSender(emailService),
		notification.WithDefaultSettings(defaults),
		notification.WithRegistryLogger(logger.Component(log, "notifications")),
		notification.WithCenterOptions(notification.WithPersistTimeout(cfg.NotificationPersistTimeout)),
	)

	authService := auth.NewService(repos.User, repos.Session, cfg)
	inventoryService := inventory.NewService(repos.Product, repos.Warehouse, repos.Movement)
	orderService := order.NewService(repos.Order, repos.Product, inventoryService)
	warehouseService := warehouse.NewService(repos.Warehouse)
	reportService := report.NewService(repos.Product, repos.Report, minioClient, rdb, cfg)

	authService.SetNotifier(registry)
	inventoryService.SetNotifier(registry)
	orderService.SetNotifier(registry)
	warehouseService.SetNotifier(registry)
	reportService.SetNotifier(registry)

	return &Services{
		Auth:          authService,
		Inventory:     inventoryService,
		Order:         orderService,
		Warehouse:     warehouseService,
		Report:        reportService,
		Email:         emailService,
		Notifications: registry,
	}
}
