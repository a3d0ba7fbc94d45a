// Package tour provides the tour bounded context module: the HTTP surface
// over the KorService2 data-access layer.
package tour

import (
	apphttp "mytrip_backend/internal/http"
	"mytrip_backend/internal/tour/service"
	"mytrip_backend/platform/config"
	"mytrip_backend/platform/logger"
)

// Module wires the tour HTTP routes.
type Module struct {
	service *service.Service
	handler *Handler
}

// NewModule creates the module over an already configured upstream client.
func NewModule(upstream service.Upstream, cache service.Cache, cfg config.CacheConfig, log *logger.Logger, metrics *service.Metrics) *Module {
	svc := service.New(upstream, cache, cfg.GetCacheTTL(), log, metrics)
	log.Info("tour module initialized", "cache_ttl", cfg.GetCacheTTL().String(), "redis", cfg.IsRedisCacheEnabled())
	return &Module{
		service: svc,
		handler: NewHandler(svc),
	}
}

// Service returns the cached tour service for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "tour"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.register(ctx.V1.Group("/tour"))
}

var _ apphttp.Module = (*Module)(nil)
