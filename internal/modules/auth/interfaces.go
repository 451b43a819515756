package auth

import (
	"context"

	"foodgram/internal/domain"
)

// UserRepository — only the methods the auth service uses
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

// SubscriptionChecker answers "does viewer follow these users".
type SubscriptionChecker interface {
	FilterTargets(ctx context.Context, owner int64, targets []int64) (map[int64]bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}
