package catalog

import (
	"context"

	"foodgram/internal/domain"
)

type IngredientRepository interface {
	List(ctx context.Context, name string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
}

type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
}
