package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"btploc/internal/domain"
	"btploc/internal/pkg/response"
	"btploc/internal/pkg/validator"
	"btploc/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only directory endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/materiels")
	{
		g.GET("", h.ListMateriels)
		g.GET("/:id", h.GetMateriel)
		g.GET("/:id/availability", h.Availability)
	}
}

// RegisterAdminRoutes mounts the write endpoints; the caller wraps the
// group with admin-only middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/materiels")
	{
		g.POST("", h.CreateMateriel)
		g.PUT("/:id", h.UpdateMateriel)
		g.PATCH("/:id/status", h.UpdateStatus)
		g.DELETE("/:id", h.DeleteMateriel)
	}
}

func (h *Handler) ListMateriels(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	f := repository.MaterielFilter{
		Category: domain.MaterielCategory(c.Query("category")),
		Status:   domain.MaterielStatus(c.Query("status")),
	}

	materiels, total, err := h.service.ListMateriels(c.Request.Context(), f, perPage, (page-1)*perPage)
	if err != nil {
		h.writeError(c, err, "Failed to list materiels")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"materiels": materiels,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

func (h *Handler) GetMateriel(c *gin.Context) {
	id, ok := h.materielID(c)
	if !ok {
		return
	}

	m, err := h.service.GetMateriel(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to get materiel")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"materiel": m})
}

func (h *Handler) Availability(c *gin.Context) {
	id, ok := h.materielID(c)
	if !ok {
		return
	}

	now := time.Now()
	from, ok := h.dateQuery(c, "from", now)
	if !ok {
		return
	}
	to, ok := h.dateQuery(c, "to", now.AddDate(0, 3, 0))
	if !ok {
		return
	}
	if !to.After(from) {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "'to' must be after 'from'")
		return
	}

	busy, err := h.service.Availability(c.Request.Context(), id, from, to)
	if err != nil {
		h.writeError(c, err, "Failed to get availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"materiel_id": id,
		"from":        from,
		"to":          to,
		"busy":        busy,
	})
}

func (h *Handler) CreateMateriel(c *gin.Context) {
	var req CreateMaterielRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid materiel: "+validationSummary(fields))
		return
	}

	m, err := h.service.CreateMateriel(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create materiel")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"materiel": m})
}

func (h *Handler) UpdateMateriel(c *gin.Context) {
	id, ok := h.materielID(c)
	if !ok {
		return
	}

	var req UpdateMaterielRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid materiel: "+validationSummary(fields))
		return
	}

	m, err := h.service.UpdateMateriel(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update materiel")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"materiel": m})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.materielID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	m, err := h.service.UpdateMaterielStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err, "Failed to update status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"materiel": m})
}

func (h *Handler) DeleteMateriel(c *gin.Context) {
	id, ok := h.materielID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMateriel(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete materiel")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) materielID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid materiel ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	s := c.Query(name)
	if s == "" {
		return fallback, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid '"+name+"' date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func validationSummary(fields []validator.FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		parts = append(parts, fe.Field+" ("+fe.Tag+")")
	}
	return strings.Join(parts, ", ")
}

func (h *Handler) writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Materiel not found")
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid category")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid status")
	case errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Price per day must be positive")
	case errors.Is(err, ErrHasLocations):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Materiel still has active or upcoming locations")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, internalMsg)
	}
}
