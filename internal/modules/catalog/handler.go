package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- ROUTES ---------- */

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

/* ---------- INGREDIENTS ---------- */

// ListIngredients handles GET /api/ingredients?name=
// @Summary		Search ingredients
// @Tags		Catalog
// @Param		name	query	string	false	"Name substring, case-insensitive"
// @Success		200	{array}	domain.Ingredient
// @Router		/ingredients [GET]
func (h *Handler) ListIngredients(c *gin.Context) {
	items, err := h.service.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GetIngredient handles GET /api/ingredients/:id
func (h *Handler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handleError(c, ErrIngredientNotFound)
		return
	}

	ing, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ing)
}

/* ---------- TAGS ---------- */

// ListTags handles GET /api/tags
// @Summary		List tags
// @Tags		Catalog
// @Success		200	{array}	domain.Tag
// @Router		/tags [GET]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/:id
func (h *Handler) GetTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handleError(c, ErrTagNotFound)
		return
	}

	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrIngredientNotFound):
		response.NotFound(c, "Ingredient not found")
	case errors.Is(err, ErrTagNotFound):
		response.NotFound(c, "Tag not found")
	default:
		logging.Error().Err(err).Str("path", c.FullPath()).Str("request_id", c.GetString("request_id")).Msg("catalog request failed")
		response.Internal(c)
	}
}
