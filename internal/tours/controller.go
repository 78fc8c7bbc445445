package tours

import (
	"errors"
	"net/http"

	"charterly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) actingUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	userIDStr, _ := userIDInterface.(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func (c *Controller) tourID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid tour ID", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// GetTour handles GET /api/v1/tours/:id
func (c *Controller) GetTour(ctx *gin.Context) {
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	tour, err := c.service.GetTourByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour retrieved successfully", tour, nil)
}

// GetLinkedTours handles GET /api/v1/tours/:id/linked
func (c *Controller) GetLinkedTours(ctx *gin.Context) {
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	linked, err := c.service.GetLinkedTours(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get linked tours", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Linked tours retrieved successfully", linked, nil)
}

// ListTours handles GET /api/v1/tours
func (c *Controller) ListTours(ctx *gin.Context) {
	var query TourListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListTours(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list tours", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tours retrieved successfully", result, nil)
}

// CreateTour handles POST /api/v1/admin/tours
func (c *Controller) CreateTour(ctx *gin.Context) {
	userID, ok := c.actingUserID(ctx)
	if !ok {
		return
	}

	var req CreateTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tour, err := c.service.CreateTour(ctx.Request.Context(), userID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Tour created successfully", tour, nil)
}

// UpdateTour handles PUT /api/v1/admin/tours/:id
func (c *Controller) UpdateTour(ctx *gin.Context) {
	userID, ok := c.actingUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	var req UpdateTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tour, err := c.service.UpdateTour(ctx.Request.Context(), id, userID, req)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour updated successfully", tour, nil)
}

// DeleteTour handles DELETE /api/v1/admin/tours/:id
func (c *Controller) DeleteTour(ctx *gin.Context) {
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	if err := c.service.DeleteTour(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour deleted successfully", nil, nil)
}

// ReplaceFeatures handles PUT /api/v1/admin/tours/:id/features
func (c *Controller) ReplaceFeatures(ctx *gin.Context) {
	userID, ok := c.actingUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	var req UpdateFeaturesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tour, err := c.service.ReplaceFeatures(ctx.Request.Context(), id, userID, req.Features)
	if err != nil {
		c.respondFeaturesError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking features updated successfully", tour, nil)
}

// ResetFeatures handles POST /api/v1/admin/tours/:id/features/reset
func (c *Controller) ResetFeatures(ctx *gin.Context) {
	userID, ok := c.actingUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	tour, err := c.service.ResetFeatures(ctx.Request.Context(), id, userID)
	if err != nil {
		c.respondFeaturesError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking features reset to defaults", tour, nil)
}

// AddGuestCategory handles POST /api/v1/admin/tours/:id/features/categories
func (c *Controller) AddGuestCategory(ctx *gin.Context) {
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		f.AddGuestCategory()
		return nil
	})
}

// UpdateGuestCategory handles PUT /api/v1/admin/tours/:id/features/categories
func (c *Controller) UpdateGuestCategory(ctx *gin.Context) {
	var req UpdateGuestCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.UpdateGuestCategory(req.Index, req.Category)
	})
}

// RemoveGuestCategory handles DELETE /api/v1/admin/tours/:id/features/categories
func (c *Controller) RemoveGuestCategory(ctx *gin.Context) {
	var req RemoveByIndexRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.RemoveGuestCategory(req.Index)
	})
}

// AddAddon handles POST /api/v1/admin/tours/:id/features/addons
func (c *Controller) AddAddon(ctx *gin.Context) {
	var req AddAddonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		f.AddAddon(req.Name, req.UnitPrice, req.Description)
		return nil
	})
}

// UpdateAddon handles PUT /api/v1/admin/tours/:id/features/addons
func (c *Controller) UpdateAddon(ctx *gin.Context) {
	var req UpdateAddonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.UpdateAddon(req.Index, req.Name, req.UnitPrice, req.Description)
	})
}

// RemoveAddon handles DELETE /api/v1/admin/tours/:id/features/addons
func (c *Controller) RemoveAddon(ctx *gin.Context) {
	var req RemoveByIndexRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.RemoveAddon(req.Index)
	})
}

// AddVehicle handles POST /api/v1/admin/tours/:id/features/vehicles
func (c *Controller) AddVehicle(ctx *gin.Context) {
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		f.AddTransferVehicle()
		return nil
	})
}

// UpdateVehicle handles PUT /api/v1/admin/tours/:id/features/vehicles
func (c *Controller) UpdateVehicle(ctx *gin.Context) {
	var req UpdateVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.UpdateTransferVehicle(req.Index, req.Vehicle)
	})
}

// RemoveVehicle handles DELETE /api/v1/admin/tours/:id/features/vehicles
func (c *Controller) RemoveVehicle(ctx *gin.Context) {
	var req RemoveByIndexRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.RemoveTransferVehicle(req.Index)
	})
}

// AddInfoItem handles POST /api/v1/admin/tours/:id/features/info
func (c *Controller) AddInfoItem(ctx *gin.Context) {
	var req InfoItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.AddInfoItem(req.List, req.Item)
	})
}

// UpdateInfoItem handles PUT /api/v1/admin/tours/:id/features/info
func (c *Controller) UpdateInfoItem(ctx *gin.Context) {
	var req InfoItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.UpdateInfoItem(req.List, req.Index, req.Item)
	})
}

// RemoveInfoItem handles DELETE /api/v1/admin/tours/:id/features/info
func (c *Controller) RemoveInfoItem(ctx *gin.Context) {
	var req InfoItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.editFeatures(ctx, func(f *BookingFeatures) error {
		return f.RemoveInfoItem(req.List, req.Index)
	})
}

func (c *Controller) editFeatures(ctx *gin.Context, edit func(*BookingFeatures) error) {
	userID, ok := c.actingUserID(ctx)
	if !ok {
		return
	}
	id, ok := c.tourID(ctx)
	if !ok {
		return
	}

	tour, err := c.service.EditFeatures(ctx.Request.Context(), id, userID, edit)
	if err != nil {
		c.respondFeaturesError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking features updated successfully", tour, nil)
}

func (c *Controller) respondFeaturesError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTourNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
	case errors.Is(err, ErrLastGuestCategory):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "At least one guest category is required", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to update booking features", nil, err.Error())
	}
}
