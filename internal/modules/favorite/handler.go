package favorite

import (
	"context"
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

// RecipeGetter loads the recipe echoed back after a successful add.
type RecipeGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
}

// Handler serves the favorite toggle for the current user.
type Handler struct {
	toggle  *membership.Toggle
	recipes RecipeGetter
}

func NewHandler(toggle *membership.Toggle, recipes RecipeGetter) *Handler {
	return &Handler{toggle: toggle, recipes: recipes}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.POST("/recipes/:id/favorite", auth, h.AddFavorite)
	api.DELETE("/recipes/:id/favorite", auth, h.RemoveFavorite)
}

// AddFavorite adds a recipe to the current user's favorites
//
// @Summary Add recipe to favorites
// @Tags Favorite
// @Produce json
// @Security BearerAuth
// @Param id path int64 true "Recipe ID"
// @Success 201 {object} recipe.ShortRecipe "Recipe added"
// @Failure 400 {object} map[string]interface{} "Already in favorites"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Failure 404 {object} map[string]interface{} "Recipe not found"
// @Router /recipes/{id}/favorite [post]
func (h *Handler) AddFavorite(c *gin.Context) {
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
		logging.Error().Err(err).Int64("recipe_id", recipeID).Msg("load favorited recipe")
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusCreated, recipe.NewShortRecipe(r))
}

// RemoveFavorite removes a recipe from the current user's favorites
//
// @Summary Remove recipe from favorites
// @Tags Favorite
// @Security BearerAuth
// @Param id path int64 true "Recipe ID"
// @Success 204 "Recipe removed"
// @Failure 400 {object} map[string]interface{} "Recipe was not in favorites"
// @Failure 404 {object} map[string]interface{} "Recipe not found"
// @Router /recipes/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
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
