package tour

import (
	"context"
	"net/http"

	"mytrip_backend/internal/tour/transport"
	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/apperr"
	"mytrip_backend/platform/httpkit"
	"mytrip_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// TourService is what the handler needs from the tour service.
type TourService interface {
	AreaCodes(ctx context.Context, params tourapi.AreaCodeParams) ([]tourapi.AreaCode, error)
	AreaBasedList(ctx context.Context, params tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error)
	SearchKeyword(ctx context.Context, params tourapi.SearchKeywordParams) (*tourapi.ListResult[tourapi.TourItem], error)
	CommonDetail(ctx context.Context, contentID string) (*tourapi.CommonDetail, error)
	IntroDetail(ctx context.Context, contentID, contentTypeID string) (*tourapi.IntroDetail, error)
	Images(ctx context.Context, contentID string) ([]tourapi.Image, error)
	PetTourInfo(ctx context.Context, contentID string) (*tourapi.PetTourInfo, error)
}

// Handler exposes the tour endpoints.
type Handler struct {
	svc TourService
}

func NewHandler(svc TourService) *Handler {
	return &Handler{svc: svc}
}

// ListAreas handles GET /api/v1/tour/areas?areaCode=
func (h *Handler) ListAreas(c *gin.Context) {
	var req transport.AreasRequest
	if !bindQuery(c, &req) {
		return
	}

	records, err := h.svc.AreaCodes(c.Request.Context(), tourapi.AreaCodeParams{AreaCode: req.AreaCode})
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}

	httpkit.OK(c, gin.H{"items": transport.ToAreas(records)})
}

// ListPlaces handles GET /api/v1/tour/places
func (h *Handler) ListPlaces(c *gin.Context) {
	var req transport.ListPlacesRequest
	if !bindQuery(c, &req) {
		return
	}

	res, err := h.svc.AreaBasedList(c.Request.Context(), tourapi.AreaBasedListParams{
		AreaCode:      req.AreaCode,
		SigunguCode:   req.SigunguCode,
		ContentTypeID: req.ContentTypeID,
		NumOfRows:     req.NumOfRows,
		PageNo:        req.PageNo,
		Arrange:       req.Arrange,
	})
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}

	httpkit.OK(c, transport.ToPlaceList(res))
}

// Search handles GET /api/v1/tour/search?keyword=
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if !bindQuery(c, &req) {
		return
	}

	res, err := h.svc.SearchKeyword(c.Request.Context(), tourapi.SearchKeywordParams{
		Keyword:       req.Keyword,
		AreaCode:      req.AreaCode,
		ContentTypeID: req.ContentTypeID,
		NumOfRows:     req.NumOfRows,
		PageNo:        req.PageNo,
	})
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}

	httpkit.OK(c, transport.ToPlaceList(res))
}

// GetPlace handles GET /api/v1/tour/places/:contentId
func (h *Handler) GetPlace(c *gin.Context) {
	detail, err := h.svc.CommonDetail(c.Request.Context(), c.Param("contentId"))
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}
	if detail == nil {
		httpkit.HandleError(c, apperr.NotFound("place not found"))
		return
	}

	httpkit.OK(c, transport.ToPlaceDetail(*detail))
}

// GetIntro handles GET /api/v1/tour/places/:contentId/intro?contentTypeId=
func (h *Handler) GetIntro(c *gin.Context) {
	intro, err := h.svc.IntroDetail(c.Request.Context(), c.Param("contentId"), c.Query("contentTypeId"))
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}

	// A missing intro is an empty state, not an error.
	httpkit.OK(c, gin.H{"intro": intro})
}

// GetImages handles GET /api/v1/tour/places/:contentId/images
func (h *Handler) GetImages(c *gin.Context) {
	images, err := h.svc.Images(c.Request.Context(), c.Param("contentId"))
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}

	httpkit.OK(c, gin.H{"items": transport.ToImages(images)})
}

// GetPetInfo handles GET /api/v1/tour/places/:contentId/pet
func (h *Handler) GetPetInfo(c *gin.Context) {
	info, err := h.svc.PetTourInfo(c.Request.Context(), c.Param("contentId"))
	if httpkit.HandleError(c, tourapi.AppError(err)) {
		return
	}

	httpkit.OK(c, gin.H{"petInfo": info})
}

func (h *Handler) register(group *gin.RouterGroup) {
	group.GET("/areas", h.ListAreas)
	group.GET("/places", h.ListPlaces)
	group.GET("/search", h.Search)
	group.GET("/places/:contentId", h.GetPlace)
	group.GET("/places/:contentId/intro", h.GetIntro)
	group.GET("/places/:contentId/images", h.GetImages)
	group.GET("/places/:contentId/pet", h.GetPetInfo)
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", validator.FieldErrors(err))
		return false
	}
	return true
}
