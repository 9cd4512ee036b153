package billing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"btploc/internal/domain"
	"btploc/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoices")
	{
		g.GET("", h.ListInvoices)
		g.GET("/:id", h.GetInvoice)
		g.POST("/:id/pay", h.Pay)
	}
}

// RegisterAdminRoutes mounts invoice issuance; wrapped with admin-only
// middleware by the caller.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/invoices", h.IssueInvoice)
}

func (h *Handler) IssueInvoice(c *gin.Context) {
	var req IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	inv, err := h.service.IssueInvoice(c.Request.Context(), req.LocationID)
	if err != nil {
		h.writeError(c, err, "Failed to issue invoice")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"invoice": inv})
}

func (h *Handler) ListInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	invoices, total, err := h.service.ListInvoices(c.Request.Context(), c.GetInt64("user_id"), perPage, (page-1)*perPage)
	if err != nil {
		h.writeError(c, err, "Failed to list invoices")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"invoices": invoices,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetInvoice(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err, "Failed to get invoice")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) Pay(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	var req PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	inv, err := h.service.Pay(
		c.Request.Context(),
		id,
		c.GetInt64("user_id"),
		c.GetString("role"),
		req.Amount,
		domain.PaymentMethod(req.Method),
		req.Reference,
	)
	if err != nil {
		h.writeError(c, err, "Failed to record payment")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) invoiceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid invoice ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrLocationNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Location not found")
	case errors.Is(err, ErrInvoiceNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Invoice not found")
	case errors.Is(err, ErrAlreadyInvoiced):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Location is already invoiced")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You do not have access to this invoice")
	case errors.Is(err, ErrNotPayable):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidState, "Invoice cannot be paid in its current status")
	case errors.Is(err, ErrInvalidPayment):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid payment amount or method")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, internalMsg)
	}
}
