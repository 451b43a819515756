package subscription

import (
	"context"

	"foodgram/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

type SubscriptionRepository interface {
	Targets(ctx context.Context, owner int64, limit, offset int) ([]int64, int64, error)
}

type RecipeRepository interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

// Toggle is the add/remove rule set for subscriptions.
type Toggle interface {
	Add(ctx context.Context, owner, target int64) error
	Remove(ctx context.Context, owner, target int64) error
}
