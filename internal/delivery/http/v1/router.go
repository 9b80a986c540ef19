package v1

import (
	"net/http"

	"match-backend/config"
	"match-backend/internal/delivery/http/middleware"
	"match-backend/internal/delivery/http/response"
	"match-backend/internal/domain"
	"match-backend/internal/usecase"
	"match-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC     domain.AuthUsecase
	ProfileUC  domain.ProfileUsecase
	ReactionUC domain.ReactionUsecase
	MatchUC    domain.MatchUsecase
	HealthUC   usecase.HealthUsecase
	Tokens     *auth.TokenManager
	Config     *config.Config
	// Redis backs rate limiting when set; nil falls back to in-process limits
	Redis *goredis.Client
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.GinMode == gin.ReleaseMode)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(deps.Redis, middleware.DefaultRateLimitConfig(cfg.RateLimitGlobalThreshold, cfg.RateLimitWindow())))

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	loginLimiter := middleware.RateLimitMiddleware(deps.Redis, middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, cfg.RateLimitWindow()))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, loginLimiter)
		NewProfileHandler(protected, deps.ProfileUC)
		NewReactionHandler(protected, deps.ReactionUC, deps.MatchUC, cfg.AutoResolveMatches)
		NewMatchHandler(protected, deps.MatchUC)
	}

	return r
}
