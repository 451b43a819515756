package cart

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/membership"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const msgRecipeNotFound = "Recipe not found"

type RecipeGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
}

type Handler struct {
	service  *Service
	toggle   *membership.Toggle
	recipes  RecipeGetter
	fileName string
}

func NewHandler(service *Service, toggle *membership.Toggle, recipes RecipeGetter, fileName string) *Handler {
	return &Handler{service: service, toggle: toggle, recipes: recipes, fileName: fileName}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("/recipes/download_shopping_cart", auth, h.Download)
	api.POST("/recipes/:id/shopping_cart", auth, h.Add)
	api.DELETE("/recipes/:id/shopping_cart", auth, h.Remove)
}

// Download streams the merged shopping list as a PDF attachment
//
// @Summary Download shopping list
// @Tags Cart
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} file "groceries.pdf"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	doc, err := h.service.Download(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logging.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("shopping list download failed")
		response.Internal(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.fileName))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// Add puts a recipe into the current user's shopping cart
//
// @Summary Add recipe to cart
// @Tags Cart
// @Security BearerAuth
// @Param id path int64 true "Recipe ID"
// @Success 201 {object} recipe.ShortRecipe
// @Failure 400 {object} map[string]interface{} "Already in cart"
// @Failure 404 {object} map[string]interface{} "Recipe not found"
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) Add(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, msgRecipeNotFound)
		return
	}

	if err := h.toggle.Add(c.Request.Context(), middleware.UserID(c), recipeID); err != nil {
		membership.WriteError(c, err, msgRecipeNotFound)
		return
	}

	r, err := h.recipes.GetByID(c.Request.Context(), recipeID)
	if err != nil {
		logging.Error().Err(err).Int64("recipe_id", recipeID).Msg("load cart recipe")
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusCreated, recipe.NewShortRecipe(r))
}

// Remove takes a recipe out of the current user's shopping cart
//
// @Summary Remove recipe from cart
// @Tags Cart
// @Security BearerAuth
// @Param id path int64 true "Recipe ID"
// @Success 204
// @Failure 400 {object} map[string]interface{} "Recipe was not in the cart"
// @Failure 404 {object} map[string]interface{} "Recipe not found"
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) Remove(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, msgRecipeNotFound)
		return
	}

	if err := h.toggle.Remove(c.Request.Context(), middleware.UserID(c), recipeID); err != nil {
		membership.WriteError(c, err, msgRecipeNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
