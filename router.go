// api/router.go
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bearcart/api/config"
	"bearcart/api/handlers"
	"bearcart/api/middleware"
	"bearcart/api/store"
	"bearcart/api/utils"
)

// routerDeps are the collaborators the HTTP layer needs. Users may be nil, which disables signup/login.
type routerDeps struct {
	Records  *store.Registry
	Users    handlers.UserRepository
	Tokens   *utils.TokenManager
	Registry *prometheus.Registry
}

func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.FEOrigins))
	if deps.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(deps.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	dashboardHandlers := handlers.NewDashboardHandlers(deps.Records, cfg.DefaultRange, cfg.DataDir)
	forecastHandlers := handlers.NewForecastHandlers(deps.Records, cfg.DefaultForecastPeriods, cfg.MaxForecastPeriods)
	adminHandlers := handlers.NewAdminHandlers(deps.Records)

	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/dashboard", dashboardHandlers.GetDashboard)
		api.GET("/forecast", forecastHandlers.GetForecast)
		api.GET("/quality", dashboardHandlers.GetQualityReport)

		if deps.Users != nil && deps.Tokens != nil {
			authHandlers := handlers.NewAuthHandlers(deps.Users, deps.Tokens)
			api.POST("/signup", authHandlers.Signup)
			api.POST("/login", authHandlers.Login)
			api.POST("/logout", authHandlers.Logout)
		}

		// Protected Routes (require a valid JWT token or the admin API key)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(deps.Tokens, cfg.AuthAPIKey))
		{
			admin.POST("/reload", adminHandlers.Reload)
		}
	}

	return r
}
