package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe, ingredients []domain.RecipeIngredient, tagIDs []int64) error
	Update(ctx context.Context, recipe *domain.Recipe, ingredients []domain.RecipeIngredient, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error)
	Delete(ctx context.Context, id int64) error
}

// IDChecker reports which of the given reference ids exist.
type IDChecker interface {
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// PairChecker reports which targets the owner has marked.
type PairChecker interface {
	FilterTargets(ctx context.Context, owner int64, targets []int64) (map[int64]bool, error)
}

// Marks are the per-viewer flags rendered on every recipe.
type Marks struct {
	Favorites     PairChecker
	Cart          PairChecker
	Subscriptions PairChecker
}
