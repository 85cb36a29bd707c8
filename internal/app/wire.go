package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/popgames/platform/internal/auth"
	"github.com/popgames/platform/internal/guard"
	"github.com/popgames/platform/internal/handler"
	"github.com/popgames/platform/internal/infra"
	"github.com/popgames/platform/internal/provider"
	"github.com/popgames/platform/internal/repository"
	"github.com/popgames/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	JWTMgr *auth.JWTManager
	Events *infra.EventProducer
	Logger *slog.Logger

	// External provider config
	ShopifyAPIVersion  string
	ShopifyAccessToken string
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	logger := deps.Logger

	// Repositories
	storeRepo := repository.NewStoreRepository()
	statsRepo := repository.NewStatsRepository()

	// Guards
	locks := guard.NewKeyedMutex()
	breaker := guard.NewCircuitBreaker(5, 30*time.Second)

	// External provider
	admin := provider.NewAdminClient(deps.ShopifyAPIVersion, breaker, logger)

	// Services
	storeSvc := service.NewStoreService(pool, storeRepo, admin, deps.Events, logger, deps.ShopifyAccessToken)
	configSvc := service.NewConfigService(pool, storeRepo, admin, locks, deps.Events, logger, deps.ShopifyAccessToken)
	consentSvc := service.NewConsentService(pool, storeRepo, admin, deps.Events, logger, deps.ShopifyAccessToken)
	statsSvc := service.NewStatsService(pool, statsRepo, locks, deps.Events)

	// Handlers
	adminHandler := handler.NewAdminHandler(storeSvc, configSvc)
	popupHandler := handler.NewPopupHandler(storeSvc, consentSvc, statsSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Storefront widget endpoint (public, shop via query param)
	r.Post("/popup", popupHandler.Handle)

	// Merchant-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateMerchant(deps.JWTMgr))

		r.Get("/store", adminHandler.GetStore)
		r.Post("/store/config", adminHandler.SaveConfig)
		r.Post("/billing/link", adminHandler.LinkBilling)
	})

	return r
}
