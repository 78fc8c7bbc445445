package discounts

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

// Validate handles POST /discounts/validate. Used by the booking dialog, so
// a bad code is a 200 with valid=false, not an error status.
func (c *Controller) Validate(ctx *gin.Context) {
	var req ValidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Validate(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate discount code", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Discount code validated", result, nil)
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	discount, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create discount", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Discount created successfully", discount, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := discountID(ctx)
	if !ok {
		return
	}

	discount, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDiscountNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Discount not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch discount", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Discount retrieved successfully", discount, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	discounts, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list discounts", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Discounts retrieved successfully", discounts, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := discountID(ctx)
	if !ok {
		return
	}

	var req UpdateDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	discount, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrDiscountNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Discount not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update discount", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Discount updated successfully", discount, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := discountID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrDiscountNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Discount not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete discount", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Discount deleted successfully", nil, nil)
}

func discountID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid discount ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
