package app

import (
	"context"
	"database/sql"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"chargenet/backend/libs/db"
	libredis "chargenet/backend/libs/redis"
	"chargenet/backend/services/platform-service/internal/cache"
	appconfig "chargenet/backend/services/platform-service/internal/config"
	httpserver "chargenet/backend/services/platform-service/internal/http"
	"chargenet/backend/services/platform-service/internal/http/handlers"
	"chargenet/backend/services/platform-service/internal/http/middleware"
	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/password"
	"chargenet/backend/services/platform-service/internal/repository"
	"chargenet/backend/services/platform-service/internal/service"
	stripecheckout "chargenet/backend/services/platform-service/internal/stripe"
	"chargenet/backend/services/platform-service/internal/ws"
)

// App wires dependencies for the platform service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds the application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN, db.Options{})
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	var counts service.CountCache
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		counts = cache.NewChargerCounts(redisClient, cfg.CountTTL(), logger)
	}

	clientRepo := repository.NewClientRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	chargerRepo := repository.NewChargerRepository(sqlDB)
	reservationRepo := repository.NewReservationRepository(sqlDB)
	discountRepo := repository.NewDiscountRepository(sqlDB)

	hasher := password.NewBcryptHasher(0)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())

	hub := ws.NewHub(logger)
	wsServer := ws.NewServer(hub, 10*time.Second, logger)

	accountsSvc := service.NewAccountsService(clientRepo, hasher, tokenSvc, logger)
	discountsSvc := service.NewDiscountsService(discountRepo)
	stationsSvc := service.NewStationsService(stationRepo, discountsSvc, logger)
	chargersSvc := service.NewChargersService(chargerRepo, stationRepo, hub, counts, logger)
	reservationsSvc := service.NewReservationsService(reservationRepo, clientRepo, chargerRepo, logger)

	var paymentsSvc *service.PaymentsService
	if cfg.Stripe.APIKey != "" {
		provider, err := stripecheckout.New(cfg.Stripe.APIKey, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)
		if err != nil {
			return nil, err
		}
		paymentsSvc = service.NewPaymentsService(provider, reservationsSvc, logger)
	}

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst, 10*time.Minute)

	routes := httpserver.Routes{
		Signup:        limiter.Wrap(handlers.NewSignupHandler(accountsSvc)),
		Login:         limiter.Wrap(handlers.NewLoginHandler(accountsSvc)),
		UpdateProfile: handlers.NewUpdateProfileHandler(accountsSvc),
		ChangeRole: middleware.RequireRole(tokenSvc,
			handlers.NewChangeRoleHandler(accountsSvc), models.RoleManager),

		ListStations:   handlers.NewListStationsHandler(stationsSvc),
		SearchStations: handlers.NewSearchStationsHandler(stationsSvc),
		StationDetails: handlers.NewStationDetailsHandler(stationsSvc),
		CreateStation: middleware.RequireRole(tokenSvc,
			handlers.NewCreateStationHandler(stationsSvc), models.RoleEmployee, models.RoleManager),
		DeleteStation: middleware.RequireRole(tokenSvc,
			handlers.NewDeleteStationHandler(stationsSvc), models.RoleManager),

		CreateCharger: middleware.RequireRole(tokenSvc,
			handlers.NewCreateChargerHandler(chargersSvc), models.RoleEmployee, models.RoleManager),
		StationChargers:   handlers.NewStationChargersHandler(chargersSvc),
		AvailableChargers: handlers.NewAvailableChargersHandler(chargersSvc),
		ChargerStatus: middleware.RequireRole(tokenSvc,
			handlers.NewChargerStatusHandler(chargersSvc), models.RoleEmployee, models.RoleManager),
		DeleteCharger: middleware.RequireRole(tokenSvc,
			handlers.NewDeleteChargerHandler(chargersSvc), models.RoleManager),
		ChargerCount: handlers.NewChargerCountHandler(chargersSvc),

		CreateReservation:   handlers.NewCreateReservationHandler(reservationsSvc),
		ClientReservations:  handlers.NewClientReservationsHandler(reservationsSvc),
		CancelReservation:   handlers.NewCancelReservationHandler(reservationsSvc),
		CompleteReservation: handlers.NewCompleteReservationHandler(reservationsSvc),
		StationStats: middleware.RequireRole(tokenSvc,
			handlers.NewStationStatsHandler(reservationsSvc), models.RoleManager),

		ListDiscounts: handlers.NewListDiscountsHandler(discountsSvc),
		CreateDiscount: middleware.RequireRole(tokenSvc,
			handlers.NewCreateDiscountHandler(discountsSvc), models.RoleEmployee, models.RoleManager),
		UpdateDiscount: middleware.RequireRole(tokenSvc,
			handlers.NewUpdateDiscountHandler(discountsSvc), models.RoleEmployee, models.RoleManager),
		DeleteDiscount: middleware.RequireRole(tokenSvc,
			handlers.NewDeleteDiscountHandler(discountsSvc), models.RoleManager),

		StatusFeed: wsServer.HandleWS,
		Health:     handlers.NewHealthHandler(),
	}

	if paymentsSvc != nil {
		routes.CreateCheckout = handlers.NewCreateCheckoutHandler(paymentsSvc)
		routes.VerifyCheckout = handlers.NewVerifyCheckoutHandler(paymentsSvc)
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
