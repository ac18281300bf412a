// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pxc/internal/core/numerator"
	"pxc/internal/domain/customers"
	"pxc/internal/domain/orders"
	"pxc/internal/infrastructure/http/v1/handlers"
	"pxc/internal/infrastructure/http/v1/middleware"
	"pxc/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Development enables gin debug mode
	Development bool

	Orders    *orders.Service
	Customers *customers.Service

	// Numerator decodes identifiers and reports period keys
	Numerator numerator.Generator

	// HealthChecks are pinged by /health/ready
	HealthChecks map[string]handlers.Pinger

	// HealthInfo adds runtime details to /health/info
	HealthInfo func() map[string]any
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks, cfg.HealthInfo)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	v1 := router.Group("/api/v1")

	if cfg.Orders != nil {
		h := handlers.NewOrderHandler(base, cfg.Orders)
		g := v1.Group("/orders")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:number", h.Get)
	}

	if cfg.Customers != nil {
		h := handlers.NewCustomerHandler(base, cfg.Customers)
		g := v1.Group("/customers")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:number", h.Get)
	}

	if cfg.Numerator != nil {
		h := handlers.NewIDHandler(base, cfg.Numerator)
		g := v1.Group("/ids/:kind")
		g.GET("/period", h.Period)
		g.GET("/:id/parse", h.Parse)
	}

	return router
}
