package analytics

import (
	"errors"
	"net/http"

	"charterly/internal/shared/utils/response"
	"charterly/internal/tours"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetDashboard handles GET /admin/analytics/dashboard
func (c *Controller) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.service.GetDashboard(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to build dashboard", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}

// GetTourAnalytics handles GET /admin/analytics/tours/:id
func (c *Controller) GetTourAnalytics(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid tour ID", nil, err.Error())
		return
	}

	analytics, err := c.service.GetTourAnalytics(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, tours.ErrTourNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch tour analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Tour analytics retrieved successfully", analytics, nil)
}
