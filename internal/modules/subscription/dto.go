package subscription

import (
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/recipe"
)

// AuthorResponse is a followed user with a preview of their recipes.
type AuthorResponse struct {
	auth.UserResponse
	Recipes      []recipe.ShortRecipe `json:"recipes"`
	RecipesCount int64                `json:"recipes_count"`
}
