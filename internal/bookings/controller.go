package bookings

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

// StartSession handles POST /bookings/sessions
func (c *Controller) StartSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid tour ID", nil, err.Error())
		return
	}

	view, err := c.service.StartSession(ctx.Request.Context(), tourID)
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking session started", view, nil)
}

// GetSession handles GET /bookings/sessions/:id
func (c *Controller) GetSession(ctx *gin.Context) {
	view, err := c.service.GetSession(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking session retrieved", view, nil)
}

// UpdateSelections handles PATCH /bookings/sessions/:id/selections
func (c *Controller) UpdateSelections(ctx *gin.Context) {
	var req UpdateSelectionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := c.service.UpdateSelections(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Selections updated", view, nil)
}

// UpdateDetails handles PATCH /bookings/sessions/:id/details
func (c *Controller) UpdateDetails(ctx *gin.Context) {
	var req UpdateDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	view, err := c.service.UpdateDetails(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Details updated", view, nil)
}

// Advance handles POST /bookings/sessions/:id/advance
func (c *Controller) Advance(ctx *gin.Context) {
	view, err := c.service.Advance(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Moved to next step", view, nil)
}

// Back handles POST /bookings/sessions/:id/back
func (c *Controller) Back(ctx *gin.Context) {
	view, err := c.service.Back(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Moved to previous step", view, nil)
}

// Submit handles POST /bookings/sessions/:id/submit. Works for guests and
// authenticated customers alike; a valid token stamps ownership.
func (c *Controller) Submit(ctx *gin.Context) {
	var userID *uuid.UUID
	if raw, exists := ctx.Get("user_id"); exists {
		if str, ok := raw.(string); ok {
			if parsed, err := uuid.Parse(str); err == nil {
				userID = &parsed
			}
		}
	}

	booking, err := c.service.Submit(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		c.respondWorkflowError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// AbandonSession handles DELETE /bookings/sessions/:id
func (c *Controller) AbandonSession(ctx *gin.Context) {
	if err := c.service.AbandonSession(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to abandon session", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking session abandoned", nil, nil)
}

// ListMyBookings handles GET /bookings/me
func (c *Controller) ListMyBookings(ctx *gin.Context) {
	raw, _ := ctx.Get("user_id")
	str, _ := raw.(string)
	userID, err := uuid.Parse(str)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	query, ok := bindListQuery(ctx)
	if !ok {
		return
	}

	result, err := c.service.ListUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// ListBookings handles GET /admin/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	query, ok := bindListQuery(ctx)
	if !ok {
		return
	}

	result, err := c.service.ListBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// GetBooking handles GET /admin/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch booking", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// UpdateStatus handles PATCH /admin/bookings/:id/status
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.UpdateStatus(ctx.Request.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrInvalidTransition):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid status transition", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update booking status", nil, err.Error())
		}
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking status updated", booking, nil)
}

func (c *Controller) respondWorkflowError(ctx *gin.Context, err error) {
	var validationErr *ValidationError
	var persistErr *PersistenceError

	switch {
	case errors.As(err, &validationErr):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, validationErr.Message,
			gin.H{"field": validationErr.Field}, validationErr.Error())
	case errors.As(err, &persistErr):
		response.RespondJSON(ctx, "error", http.StatusBadGateway, persistErr.UserMessage(), nil, nil)
	case errors.Is(err, ErrSessionNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking session not found or expired", nil, nil)
	case errors.Is(err, tours.ErrTourNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
	case errors.Is(err, ErrTourNotBookable):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Tour is not open for booking", nil, nil)
	case errors.Is(err, ErrSubmissionInFlight):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Booking submission already in progress", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Something went wrong", nil, err.Error())
	}
}

func bindListQuery(ctx *gin.Context) (BookingListQuery, bool) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return query, false
	}
	return query, true
}
