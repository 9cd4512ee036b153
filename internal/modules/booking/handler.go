package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"btploc/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	locations := rg.Group("/locations")
	{
		locations.POST("", h.CreateLocation)
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.CancelLocationNoReason)
		locations.POST("/:id/extend", h.ExtendLocation)
		locations.POST("/:id/cancel", h.CancelLocation)
	}
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	l, err := h.service.CreateLocation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create location")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"location": l})
}

func (h *Handler) ListLocations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	all := c.Query("all") == "true"

	locations, total, err := h.service.ListLocations(
		c.Request.Context(),
		c.GetInt64("user_id"),
		c.GetString("role"),
		all,
		perPage,
		(page-1)*perPage,
	)
	if err != nil {
		h.writeError(c, err, "Failed to list locations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"locations": locations,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := h.locationID(c)
	if !ok {
		return
	}

	l, err := h.service.GetLocation(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err, "Failed to get location")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"location": l})
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	if !isAdmin(c.GetString("role")) {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Admin access required")
		return
	}

	id, ok := h.locationID(c)
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	l, err := h.service.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update location")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"location": l})
}

func (h *Handler) ExtendLocation(c *gin.Context) {
	id, ok := h.locationID(c)
	if !ok {
		return
	}

	var req ExtendLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	l, err := h.service.ExtendLocation(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.NewEndDate)
	if err != nil {
		h.writeError(c, err, "Failed to extend location")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"location": l})
}

func (h *Handler) CancelLocation(c *gin.Context) {
	id, ok := h.locationID(c)
	if !ok {
		return
	}

	var req CancelLocationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
			return
		}
	}

	l, err := h.service.CancelLocation(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Reason)
	if err != nil {
		h.writeError(c, err, "Failed to cancel location")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"location": l})
}

// CancelLocationNoReason backs DELETE: a soft delete is a cancellation.
func (h *Handler) CancelLocationNoReason(c *gin.Context) {
	id, ok := h.locationID(c)
	if !ok {
		return
	}

	l, err := h.service.CancelLocation(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), "")
	if err != nil {
		h.writeError(c, err, "Failed to cancel location")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"location": l})
}

func (h *Handler) locationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid location ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid input")
	case errors.Is(err, ErrMaterielNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Materiel not found")
	case errors.Is(err, ErrLocationNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Location not found")
	case errors.Is(err, ErrMaterielUnavailable):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Materiel is not available")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Materiel is already booked for the selected dates")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You do not have access to this location")
	case errors.Is(err, ErrNotExtendable):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Location cannot be extended in its current status")
	case errors.Is(err, ErrAlreadyCancelled):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Location is already cancelled")
	case errors.Is(err, ErrNotCancellable):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Cannot cancel a completed location")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Invalid status transition")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, internalMsg)
	}
}
