package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"property-desk/internal/metrics"
	"property-desk/internal/middleware"
	"property-desk/internal/services"
)

// RouterConfig carries everything the HTTP layer depends on
type RouterConfig struct {
	DB                 *gorm.DB
	Tenants            *services.TenantService
	Requests           *services.MaintenanceService
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer
	Logger             *logrus.Logger
	CORSAllowedOrigins []string
	MaxUploadBytes     int64
}

// NewRouter wires middleware and routes onto a new gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.Use(middleware.RequestID())
	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.LoggerMiddleware(cfg.Logger))
	router.Use(middleware.MetricsMiddleware(cfg.Metrics))
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	health := NewHealthHandler(cfg.DB)
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	tenantHandler := NewTenantHandler(cfg.Tenants)
	requestHandler := NewRequestHandler(cfg.Requests, cfg.MaxUploadBytes)

	api := router.Group("/api/v1")
	{
		tenants := api.Group("/tenants")
		{
			tenants.GET("", tenantHandler.ListTenants)
			tenants.POST("", tenantHandler.AddTenant)
			tenants.GET("/:id", tenantHandler.GetTenant)
			tenants.PUT("/:id/apartment", tenantHandler.MoveTenant)
			tenants.POST("/:id/checkout", tenantHandler.CheckOutTenant)
			tenants.DELETE("/:id", tenantHandler.DeleteTenant)
		}

		requests := api.Group("/requests")
		{
			requests.GET("", requestHandler.FilterRequests)
			requests.POST("", requestHandler.SubmitRequest)
			requests.GET("/:id", requestHandler.GetRequest)
			requests.POST("/:id/complete", requestHandler.CompleteRequest)
		}
	}

	return router
}
