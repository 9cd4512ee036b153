package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"btploc/internal/config"
	"btploc/internal/database"
	"btploc/internal/middleware"
	"btploc/internal/modules/auth"
	"btploc/internal/modules/billing"
	"btploc/internal/modules/booking"
	"btploc/internal/modules/catalog"
	"btploc/internal/modules/favorite"
	"btploc/internal/modules/notification"
	"btploc/internal/modules/support"
	jwtsvc "btploc/internal/pkg/jwt"
	"btploc/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	materielRepo := repository.NewMaterielRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Services
	notificationService := notification.NewService(notificationRepo)
	authService := auth.NewService(userRepo, jwtService)
	bookingService := booking.NewService(locationRepo, materielRepo, notificationService)
	catalogService := catalog.NewService(materielRepo, locationRepo)
	billingService := billing.NewService(invoiceRepo, locationRepo, notificationService)
	supportService := support.NewService(ticketRepo, locationRepo, notificationService)

	// Handlers
	authHandler := auth.NewHandler(authService)
	bookingHandler := booking.NewHandler(bookingService)
	catalogHandler := catalog.NewHandler(catalogService)
	billingHandler := billing.NewHandler(billingService)
	favoriteHandler := favorite.NewHandler(favoriteRepo)
	notificationHandler := notification.NewHandler(notificationService)
	supportHandler := support.NewHandler(supportService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	catalogCache := gocache.New(cfg.CatalogCacheTTL, 2*cfg.CatalogCacheTTL)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)

		// Public read-only equipment directory, response-cached.
		public := v1.Group("")
		public.Use(middleware.Cache(catalogCache, cfg.CatalogCacheTTL))
		catalogHandler.RegisterPublicRoutes(public)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			favoriteHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			billingHandler.RegisterRoutes(protected)
			supportHandler.RegisterRoutes(protected)

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				catalogHandler.RegisterAdminRoutes(admin)
				billingHandler.RegisterAdminRoutes(admin)
				supportHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
