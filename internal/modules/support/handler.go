package support

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
	g := rg.Group("/tickets")
	{
		g.POST("", h.CreateTicket)
		g.GET("", h.ListTickets)
		g.GET("/:id", h.GetTicket)
	}
}

// RegisterAdminRoutes mounts ticket closing; wrapped with admin-only
// middleware by the caller.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/tickets/:id/close", h.CloseTicket)
}

func (h *Handler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	t, err := h.service.CreateTicket(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create ticket")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"ticket": t})
}

func (h *Handler) ListTickets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	all := c.Query("all") == "true"

	tickets, total, err := h.service.ListTickets(
		c.Request.Context(),
		c.GetInt64("user_id"),
		c.GetString("role"),
		all,
		perPage,
		(page-1)*perPage,
	)
	if err != nil {
		h.writeError(c, err, "Failed to list tickets")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tickets":  tickets,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *Handler) GetTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	t, err := h.service.GetTicket(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err, "Failed to get ticket")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ticket": t})
}

func (h *Handler) CloseTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	t, err := h.service.CloseTicket(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to close ticket")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ticket": t})
}

func (h *Handler) ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid ticket ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrTicketNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Ticket not found")
	case errors.Is(err, ErrLocationNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Location not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You do not have access to this ticket")
	case errors.Is(err, ErrAlreadyClosed):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Ticket is already closed")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, internalMsg)
	}
}
