// Package stats provides the stats bounded context module.
package stats

import (
	apphttp "mytrip_backend/internal/http"
	"mytrip_backend/internal/stats/service"
	"mytrip_backend/platform/logger"
)

// Module wires the stats HTTP routes.
type Module struct {
	handler *Handler
}

// NewModule creates the module over a listing source, usually the cached
// tour service.
func NewModule(lister service.Lister, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(service.New(lister, log))}
}

func (m *Module) Name() string {
	return "stats"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.register(ctx.V1.Group("/stats"))
}

var _ apphttp.Module = (*Module)(nil)
