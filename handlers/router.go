package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lensfolio/api/auth"
	"lensfolio/api/middleware"
	"lensfolio/api/ratelimit"
)

type RouterConfig struct {
	Recorder       EventRecorder
	Reporter       SummaryReporter
	Auth           Authenticator
	Limiter        ratelimit.Limiter
	AllowedOrigins []string
	TrustedProxies []string
	SecureCookies  bool
	Log            *zap.Logger
}

// NewRouter builds the API engine. Client IPs come from X-Forwarded-For only when
// the direct peer is one of cfg.TrustedProxies.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(cfg.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	authHandlers := NewAuthHandlers(cfg.Auth, cfg.SecureCookies, cfg.Log)
	analyticsHandlers := NewAnalyticsHandlers(cfg.Recorder, cfg.Reporter, cfg.Log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/analytics",
			middleware.RateLimit(cfg.Limiter, ratelimit.AnalyticsPolicy),
			analyticsHandlers.TrackEvent)
		api.GET("/analytics",
			middleware.AuthRequired(cfg.Auth, AnalyticsCookie, auth.AudienceAnalytics, true, cfg.Log),
			analyticsHandlers.GetSummary)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", middleware.RateLimit(cfg.Limiter, ratelimit.LoginPolicy), authHandlers.Login)
			authGroup.POST("/logout", authHandlers.Logout)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/auth", authHandlers.AdminLogin)
			admin.GET("/auth", authHandlers.AdminStatus)
			admin.DELETE("/auth", authHandlers.AdminLogout)
		}
	}

	return r, nil
}
