// Package app wires repositories, services and handlers into the HTTP router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"foodgram/internal/config"
	"foodgram/internal/logging"
	"foodgram/internal/membership"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/cart"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/favorite"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/subscription"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// App is the assembled HTTP application.
type App struct {
	Router *gin.Engine
	// Limiter throttles login attempts; nil when disabled.
	Limiter *middleware.RateLimiter
}

// NewStore picks the image backend configured in media.driver.
func NewStore(ctx context.Context, cfg config.MediaConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "local":
		return storage.NewLocalStore(cfg.Dir, cfg.BaseURL), nil
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}

func New(cfg *config.Config, db *gorm.DB, images storage.Store) *App {
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	tagRepo := repository.NewTagRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewCartRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	tokens := jwt.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	requireAuth := middleware.JWTAuth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	favoriteToggle := membership.New("favorite", favoriteRepo, recipeRepo.Exists)
	cartToggle := membership.New("shopping_cart", cartRepo, recipeRepo.Exists)
	subscriptionToggle := membership.New("subscription", subscriptionRepo, userRepo.Exists, membership.ForbidSelf())

	authHandler := auth.NewHandler(auth.NewService(userRepo, subscriptionRepo, tokens))
	catalogHandler := catalog.NewHandler(catalog.NewService(ingredientRepo, tagRepo))
	recipeHandler := recipe.NewHandler(recipe.NewService(recipeRepo, ingredientRepo, tagRepo, images, recipe.Marks{
		Favorites:     favoriteRepo,
		Cart:          cartRepo,
		Subscriptions: subscriptionRepo,
	}))
	favoriteHandler := favorite.NewHandler(favoriteToggle, recipeRepo)
	renderer := cart.NewRenderer(cfg.PDF.Title, cfg.PDF.FontPath)
	if renderer.CoreFont() {
		logging.Warn().Msg("pdf.font_path is not set; shopping lists use a core font and cannot show non-Latin names")
	}
	cartHandler := cart.NewHandler(
		cart.NewService(cartRepo, renderer),
		cartToggle, recipeRepo, cfg.PDF.FileName,
	)
	subscriptionHandler := subscription.NewHandler(subscription.NewService(userRepo, subscriptionRepo, recipeRepo, subscriptionToggle))

	a := &App{}
	var loginGuard gin.HandlerFunc
	if cfg.Auth.LoginRateLimit > 0 {
		a.Limiter = middleware.NewRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
		loginGuard = a.Limiter.Middleware()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local, ok := images.(*storage.LocalStore); ok && strings.HasPrefix(cfg.Media.BaseURL, "/") {
		r.Static(cfg.Media.BaseURL, local.Dir())
	}

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api, requireAuth, optionalAuth, loginGuard)
		subscriptionHandler.RegisterRoutes(api, requireAuth)
		catalogHandler.RegisterRoutes(api)
		recipeHandler.RegisterRoutes(api, requireAuth, optionalAuth)
		favoriteHandler.RegisterRoutes(api, requireAuth)
		cartHandler.RegisterRoutes(api, requireAuth)
	}

	a.Router = r
	return a
}
