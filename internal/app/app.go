// Package app assembles repositories, services and routes into one HTTP handler.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"foodgram/internal/cache"
	"foodgram/internal/config"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/feed"
	"foodgram/internal/modules/recipes"
	"foodgram/internal/modules/shoppinglist"
	"foodgram/internal/modules/users"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const limiterCleanupInterval = time.Minute

type App struct {
	Router  *gin.Engine
	Hub     *feed.Hub
	Metrics *metrics.Metrics

	limiter *middleware.RateLimiter
	stop    chan struct{}
}

func New(cfg *config.AppConfig, db *gorm.DB, logger *slog.Logger) (*App, error) {
	m := metrics.New()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	tagRepo := repository.NewTagRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)

	media := storage.NewMediaStore(cfg.MediaRoot, cfg.MediaURL)
	jwtService := jwt.New(cfg.SecretKey, cfg.JWTTTL)

	var catalogCache catalog.Cache
	if cfg.CatalogCacheSize > 0 {
		c, err := cache.New(cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
		if err != nil {
			return nil, err
		}
		catalogCache = c
	}
	catalogService := catalog.NewService(ingredientRepo, tagRepo, catalogCache)

	hub := feed.NewHub(m)
	publisher := feed.NewPublisher(hub, subscriptionRepo)

	authService := auth.NewService(userRepo, tokenRepo, jwtService)
	usersService := users.NewService(userRepo, subscriptionRepo, recipeRepo, media)
	recipeService := recipes.NewService(recipes.Deps{
		Recipes:       recipeRepo,
		Catalog:       catalogService,
		Favorites:     favoriteRepo,
		Cart:          cartRepo,
		Subscriptions: subscriptionRepo,
		Images:        media,
		Notifier:      publisher,
		Metrics:       m,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	shoppingService := shoppinglist.NewService(recipeRepo)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stop := make(chan struct{})
	limiter.StartCleanup(limiterCleanupInterval, stop)

	authRequired := middleware.JWTAuth(jwtService, tokenRepo)
	authOptional := middleware.OptionalAuth(jwtService, tokenRepo)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(logger),
		m.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.Static(cfg.MediaURL, media.Root())

	api := r.Group("/api")
	auth.NewHandler(authService).RegisterRoutes(api, authRequired, limiter.Middleware())
	users.NewHandler(usersService, cfg.PageSize, cfg.MaxPageSize).RegisterRoutes(api, authRequired, authOptional)
	catalog.NewHandler(catalogService).RegisterRoutes(api)

	recipeHandler := recipes.NewHandler(recipeService, cfg.PageSize, cfg.MaxPageSize)
	recipeGroup := recipeHandler.RegisterRoutes(api, authRequired, authOptional)
	recipeHandler.RegisterShortLinks(r)

	shoppingGroup := recipeGroup.Group("", authRequired)
	shoppinglist.NewHandler(shoppingService, m).RegisterRoutes(shoppingGroup)

	feed.NewHandler(hub, jwtService, tokenRepo, cfg.CORSOrigins).RegisterRoutes(api)

	return &App{Router: r, Hub: hub, Metrics: m, limiter: limiter, stop: stop}, nil
}

// Close stops background work and disconnects feed clients.
func (a *App) Close() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	a.Hub.Close()
}
