package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/store-service/internal/api/http"
	"github.com/spec-kit/store-service/internal/api/http/handlers"
	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/config"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/observability"
	"github.com/spec-kit/store-service/internal/persistence"
	"github.com/spec-kit/store-service/internal/ratelimit"
	"github.com/spec-kit/store-service/internal/repository"
	"github.com/spec-kit/store-service/internal/service"
	"github.com/spec-kit/store-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	storeRepo := repository.NewStoreRepository(pool)
	permRepo := repository.NewPermissionRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	supplierRepo := repository.NewSupplierRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)

	oracle := auth.OracleFunc(func(ctx context.Context, userID string) (auth.Decision, error) {
		derived, err := permRepo.DerivedAdmin(ctx, userID)
		if err != nil {
			return auth.DecisionUnknown, err
		}
		if derived {
			return auth.DecisionAllow, nil
		}
		return auth.DecisionDeny, nil
	})
	access := auth.NewAccessControl(userRepo, permRepo, oracle, logger)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := service.NewLogMailer(logger, cfg.Notification)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		AuditRepo:  auditRepo,
		Access:     access,
		Dispatcher: dispatcher,
	}, logger)
	userService := service.NewUserService(*cfg, userRepo, permRepo, access)
	storeService := service.NewStoreService(storeRepo, access)
	inventoryService := service.NewInventoryService(productRepo, access)
	orderService := service.NewOrderService(orderRepo, productRepo, access, dispatcher, logger)
	partnerService := service.NewPartnerService(supplierRepo, customerRepo, access)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	csrfGuard := auth.NewCSRFGuard(cfg.CSRF, logger, metrics)
	limiter := ratelimit.NewLimiter(redis.Client, cfg.RateLimit.ForgotPasswordPerWindow, cfg.RateLimit.Window(), logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, csrfGuard, limiter),
		Users:          handlers.NewUsersHandler(userService),
		Stores:         handlers.NewStoresHandler(storeService),
		Products:       handlers.NewProductsHandler(inventoryService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Partners:       handlers.NewPartnersHandler(partnerService),
		AuthMiddleware: authMiddleware,
		CSRFGuard:      csrfGuard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
