package stats

import (
	"context"

	"mytrip_backend/internal/stats/service"
	"mytrip_backend/internal/stats/transport"
	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// StatsService is what the handler needs from the stats service.
type StatsService interface {
	RegionStats(ctx context.Context) ([]service.Count, error)
	TypeStats(ctx context.Context) ([]service.Count, error)
	Summary(ctx context.Context) (*service.Summary, error)
}

// Handler exposes the stats endpoints.
type Handler struct {
	svc StatsService
}

func NewHandler(svc StatsService) *Handler {
	return &Handler{svc: svc}
}

// Regions handles GET /api/v1/stats/regions
func (h *Handler) Regions(c *gin.Context) {
	counts, err := h.svc.RegionStats(c.Request.Context())
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}
	httpkit.OK(c, gin.H{"items": transport.ToRegionCounts(counts)})
}

// Types handles GET /api/v1/stats/types
func (h *Handler) Types(c *gin.Context) {
	counts, err := h.svc.TypeStats(c.Request.Context())
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}
	httpkit.OK(c, gin.H{"items": transport.ToTypeCounts(counts)})
}

// Summary handles GET /api/v1/stats/summary
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}
	httpkit.OK(c, transport.ToSummary(summary))
}

func (h *Handler) register(group *gin.RouterGroup) {
	group.GET("/regions", h.Regions)
	group.GET("/types", h.Types)
	group.GET("/summary", h.Summary)
}
