package favorite

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"btploc/internal/pkg/response"
	"btploc/internal/repository"
)

// Handler works over the repository directly; favorites carry no business
// rules beyond uniqueness.
type Handler struct {
	repo repository.FavoriteRepository
}

func NewHandler(repo repository.FavoriteRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("/:materielId", h.AddFavorite)
		favorites.DELETE("/:materielId", h.RemoveFavorite)
		favorites.GET("/:materielId/check", h.CheckFavorite)
	}
}

func (h *Handler) GetFavorites(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	favorites, total, err := h.repo.GetByUserID(c.Request.Context(), c.GetInt64("user_id"), perPage, (page-1)*perPage)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to get favorites")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"favorites": favorites,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

func (h *Handler) AddFavorite(c *gin.Context) {
	materielID, ok := h.materielID(c)
	if !ok {
		return
	}

	favorite, err := h.repo.Add(c.Request.Context(), c.GetInt64("user_id"), materielID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoriteExists) {
			response.Error(c, http.StatusConflict, response.CodeConflict, "Materiel is already in favorites")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to add favorite")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"favorite": favorite})
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	materielID, ok := h.materielID(c)
	if !ok {
		return
	}

	if err := h.repo.Remove(c.Request.Context(), c.GetInt64("user_id"), materielID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Favorite not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to remove favorite")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) CheckFavorite(c *gin.Context) {
	materielID, ok := h.materielID(c)
	if !ok {
		return
	}

	exists, err := h.repo.Exists(c.Request.Context(), c.GetInt64("user_id"), materielID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to check favorite")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"is_favorite": exists})
}

func (h *Handler) materielID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("materielId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid materiel ID")
		return 0, false
	}
	return id, true
}
