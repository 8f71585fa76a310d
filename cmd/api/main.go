package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"warehouse-manager/internal/config"
	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/handler"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/pkg/logger"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service"
	"warehouse-manager/internal/service/auth"
	"warehouse-manager/internal/service/notification"
)

const (
	shutdownTimeout       = 15 * time.Second
	drainTimeout          = 10 * time.Second
	sessionSweepInterval  = time.Hour
	centerSweepInterval   = 5 * time.Minute
	migrationStartTimeout = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build logger")
	}
	logger.SetGlobal(appLogger)

	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		log.Info().Str("path", cfg.LocalesPath).Msg("no locale overrides found, using bundled translations")
	}
	i18n.SetLocale(cfg.DefaultLocale)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), migrationStartTimeout)
	err = config.RunMigrations(migrateCtx, db, logger.Component(appLogger, "migrations"))
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	var repoOpts []repository.Option
	if cfg.NotificationStore == config.NotificationStoreMongo {
		mongoDB := connectMongo(cfg)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoDB.Client().Disconnect(ctx)
		}()
		repoOpts = append(repoOpts, repository.WithNotificationStore(repository.NewMongoNotificationRepository(mongoDB)))
	}

	minioClient, err := config.NewMinIOClient(cfg, logger.Component(appLogger, "minio"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to minio")
	}

	repos := repository.NewRepositories(db, rdb, repoOpts...)
	services := service.NewServices(repos, rdb, minioClient, cfg, appLogger)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	emitLimiter := limiter.New(limiter.Config{
		Max:        cfg.NotificationEmitPerMinute,
		Expiration: time.Minute,
		Storage:    config.NewRedisStorage(rdb),
		KeyGenerator: func(c *fiber.Ctx) string {
			return "limiter:notifications:" + middleware.GetCurrentUserID(c).String()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.ErrTooManyRequests
		},
	})

	setupRoutes(app, handlers, services.Auth, emitLimiter)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepSessions(sweepCtx, repos.Session, logger.Component(appLogger, "sessions"))
	go sweepNotificationCenters(sweepCtx, services.Notifications, cfg.NotificationIdleTTL, logger.Component(appLogger, "notifications"))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	stopSweep()

	handlers.Notification.CloseStreams()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()

	if err := services.Notifications.Close(drainCtx); err != nil {
		log.Error().Err(err).Msg("pending notification writes did not finish")
	}
}

func connectMongo(cfg *config.Config) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mongoDB, err := config.NewMongoDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	if err := repository.EnsureNotificationIndexes(ctx, mongoDB); err != nil {
		log.Fatal().Err(err).Msg("failed to create notification indexes")
	}

	log.Info().Str("database", cfg.MongoDatabase).Msg("notifications stored in mongodb")
	return mongoDB
}

func sweepSessions(ctx context.Context, sessions repository.SessionRepository, l zerolog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.DeleteExpired(ctx)
			if err != nil {
				l.Error().Err(err).Msg("failed to delete expired sessions")
				continue
			}
			if removed > 0 {
				l.Info().Int64("removed", removed).Msg("expired sessions deleted")
			}
		}
	}
}

func sweepNotificationCenters(ctx context.Context, registry *notification.Registry, maxIdle time.Duration, l zerolog.Logger) {
	ticker := time.NewTicker(centerSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted, err := registry.EvictIdle(ctx, maxIdle)
			if err != nil {
				l.Warn().Err(err).Msg("idle notification centers closed with pending writes")
			}
			if evicted > 0 {
				l.Debug().Int("evicted", evicted).Int("active", registry.Len()).Msg("idle notification centers evicted")
			}
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service, emitLimiter fiber.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)
	authRoutes.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", h.Auth.Me)

	products := protected.Group("/products")
	products.Get("/", h.Product.List)
	products.Get("/:productId", h.Product.Get)
	products.Get("/:productId/movements", h.Product.ListMovements)
	products.Post("/", middleware.RequireRole(domain.RoleStaff), h.Product.Create)
	products.Put("/:productId", middleware.RequireRole(domain.RoleStaff), h.Product.Update)
	products.Delete("/:productId", middleware.RequireRole(domain.RoleManager), h.Product.Delete)
	products.Post("/:productId/adjust", middleware.RequireRole(domain.RoleStaff), h.Product.AdjustStock)

	orders := protected.Group("/orders")
	orders.Get("/", h.Order.List)
	orders.Get("/:orderId", h.Order.Get)
	orders.Post("/", middleware.RequireRole(domain.RoleStaff), h.Order.Create)
	orders.Patch("/:orderId/status", middleware.RequireRole(domain.RoleStaff), h.Order.UpdateStatus)

	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", h.Warehouse.List)
	warehouses.Get("/:warehouseId", h.Warehouse.Get)
	warehouses.Post("/", middleware.RequireRole(domain.RoleManager), h.Warehouse.Create)
	warehouses.Get("/:warehouseId/zones", h.Warehouse.ListZones)
	warehouses.Post("/:warehouseId/zones", middleware.RequireRole(domain.RoleManager), h.Warehouse.CreateZone)

	reports := protected.Group("/reports")
	reports.Get("/summary", h.Report.Summary)
	reports.Post("/inventory", middleware.RequireRole(domain.RoleManager), h.Report.GenerateInventory)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Get("/settings", h.Notification.GetSettings)
	notifications.Patch("/settings", h.Notification.UpdateSettings)
	notifications.Post("/", emitLimiter, h.Notification.Create)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Delete("/stock", h.Notification.DeleteStockAdjustments)
	notifications.Delete("/:id", h.Notification.Delete)
	notifications.Delete("/", h.Notification.DeleteAll)
}
