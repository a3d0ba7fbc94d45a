// Package http holds what the router needs from the composition root: the
// assembled App and the Module contract each bounded context implements.
package http

import (
	"context"
	"net/http"

	"mytrip_backend/platform/config"
	"mytrip_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module mounts the routes of one bounded context.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to every Module during route registration.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1, behind the per-IP rate limiter.
	V1 *gin.RouterGroup
}

// RouterConfig is the configuration slice the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
}

// HealthChecker backs /api/ready.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is built in cmd/api and passed to router.New.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is optional; without it /api/ready always reports ok.
	Health HealthChecker
	// Metrics is optional; without it /metrics is not mounted.
	Metrics http.Handler
	Modules []Module
}
