package recipe

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	recipes := api.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.List)
		recipes.POST("", auth, h.Create)
		recipes.GET("/:id", optionalAuth, h.Get)
		recipes.PATCH("/:id", auth, h.Update)
		recipes.DELETE("/:id", auth, h.Delete)
	}
}

// List handles GET /api/recipes
// @Summary		List recipes
// @Tags		Recipes
// @Param		author	query	int	false	"Author id"
// @Param		tags	query	[]string	false	"Tag slugs, any match"	collectionFormat(multi)
// @Param		is_favorited	query	string	false	"1/0/true/false"
// @Param		is_in_shopping_cart	query	string	false	"1/0/true/false"
// @Param		limit	query	int	false	"Page size"
// @Param		offset	query	int	false	"Offset"
// @Success		200	{object}	map[string]interface{}
// @Router		/recipes [GET]
func (h *Handler) List(c *gin.Context) {
	p, err := pagination.FromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	q, err := parseListQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), middleware.UserID(c), q, p)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get handles GET /api/recipes/:id
// @Summary		Get recipe
// @Tags		Recipes
// @Param		id	path	int64	true	"Recipe ID"
// @Success		200	{object}	RecipeResponse
// @Failure		404	{object}	map[string]interface{}
// @Router		/recipes/{id} [GET]
func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.service.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Create handles POST /api/recipes
// @Summary		Create recipe
// @Tags		Recipes
// @Security	BearerAuth
// @Param		request	body	CreateRecipeRequest	true	"Recipe"
// @Success		201	{object}	RecipeResponse
// @Failure		400	{object}	map[string]interface{}
// @Router		/recipes [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipe)
}

// Update handles PATCH /api/recipes/:id
// @Summary		Update recipe
// @Tags		Recipes
// @Security	BearerAuth
// @Param		id	path	int64	true	"Recipe ID"
// @Param		request	body	UpdateRecipeRequest	true	"Recipe"
// @Success		200	{object}	RecipeResponse
// @Failure		400	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/recipes/{id} [PATCH]
func (h *Handler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipe, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/:id
// @Summary		Delete recipe
// @Tags		Recipes
// @Security	BearerAuth
// @Param		id	path	int64	true	"Recipe ID"
// @Success		204
// @Failure		403	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/recipes/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipeID parses :id and writes a 404 when it is not a number.
func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, msgNotFound)
		return 0, false
	}
	return id, true
}

func parseListQuery(c *gin.Context) (ListQuery, error) {
	q := ListQuery{Tags: c.QueryArray("tags")}
	errs := validator.Errors{}

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.Add("author", msgInvalidID)
		}
		q.AuthorID = id
	}
	var ok bool
	if q.Favorited, ok = parseFlag(c.Query("is_favorited")); !ok {
		errs.Add("is_favorited", msgInvalidBool)
	}
	if q.InCart, ok = parseFlag(c.Query("is_in_shopping_cart")); !ok {
		errs.Add("is_in_shopping_cart", msgInvalidBool)
	}
	return q, errs.Err()
}

// parseFlag accepts 1/0/true/false; empty means false.
func parseFlag(raw string) (bool, bool) {
	switch raw {
	case "":
		return false, true
	case "1", "true", "True":
		return true, true
	case "0", "false", "False":
		return false, true
	}
	return false, false
}

func writeError(c *gin.Context, err error) {
	if errs, ok := validator.As(err); ok {
		response.ValidationError(c, errs)
		return
	}
	switch {
	case errors.Is(err, ErrRecipeNotFound):
		response.NotFound(c, msgNotFound)
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", msgForbidden)
	default:
		logging.Error().Err(err).Str("path", c.FullPath()).Str("request_id", c.GetString("request_id")).Msg("recipe request failed")
		response.Internal(c)
	}
}
