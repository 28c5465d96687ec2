package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "storesphere"

// SetupRouter builds the engine with middleware, static uploads, metrics and the /v1 API.
// Background work started here stops when ctx is done.
func SetupRouter(ctx context.Context) *gin.Engine {
	cfg := config.AppConfig
	if cfg == nil {
		cfg = &config.Config{}
	}

	if err := utils.RegisterValidators(); err != nil {
		utils.LogError("Failed to register validators: %v", err)
	}

	router := gin.New()
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.MetricsMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.CORSMiddleware(cfg.AllowedOrigins))
	if cfg.RateLimitRPS > 0 {
		limiter := utils.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.RunSweeper(ctx, 10*time.Minute, 30*time.Minute)
		router.Use(utils.RateLimitMiddleware(limiter))
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = "storesphere-session"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24,
		Path:     "/",
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	router.Static("/uploads", uploadDir)
	router.GET("/metrics", utils.MetricsHandler())
	router.GET("/health", func(c *gin.Context) {
		utils.Success(c, "ok", gin.H{"time": time.Now().UTC()})
	})

	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})
	return router
}
