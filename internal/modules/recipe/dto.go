package recipe

import (
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/modules/auth"
)

type IngredientInput struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"min=1,max=10000"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64           `json:"tags" validate:"required,min=1,dive,gt=0"`
	Image       string            `json:"image"`
	Name        string            `json:"name" validate:"required,max=200"`
	Text        string            `json:"text" validate:"required"`
	CookingTime int               `json:"cooking_time" validate:"required,min=1,max=600"`
}

// UpdateRecipeRequest is a PATCH body: both association sets are mandatory,
// scalar fields are changed only when present. An empty image clears it.
type UpdateRecipeRequest struct {
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64           `json:"tags" validate:"required,min=1,dive,gt=0"`
	Image       *string           `json:"image"`
	Name        *string           `json:"name" validate:"omitnil,max=200"`
	Text        *string           `json:"text"`
	CookingTime *int              `json:"cooking_time" validate:"omitnil,min=1,max=600"`
}

// ListQuery holds the GET /recipes filters. Favorited and InCart apply only to
// an authenticated viewer.
type ListQuery struct {
	AuthorID  int64
	Tags      []string
	Favorited bool
	InCart    bool
}

type IngredientAmount struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64              `json:"id"`
	Tags             []domain.Tag       `json:"tags"`
	Author           auth.UserResponse  `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
	PubDate          time.Time          `json:"pub_date"`
}

// ShortRecipe is the compact card returned by favorite, cart and subscription endpoints.
type ShortRecipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewShortRecipe(r *domain.Recipe) ShortRecipe {
	return ShortRecipe{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func NewShortRecipes(recipes []domain.Recipe) []ShortRecipe {
	out := make([]ShortRecipe, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewShortRecipe(&recipes[i]))
	}
	return out
}
