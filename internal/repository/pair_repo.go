package repository

import (
	"context"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// PairRepository stores a set of (owner, target) rows kept unique by an index.
// Favorites, cart entries and subscriptions are all such sets.
type PairRepository[T any] struct {
	db        *gorm.DB
	ownerCol  string
	targetCol string
	newPair   func(owner, target int64) *T
}

func NewPairRepository[T any](db *gorm.DB, ownerCol, targetCol string, newPair func(owner, target int64) *T) *PairRepository[T] {
	return &PairRepository[T]{db: db, ownerCol: ownerCol, targetCol: targetCol, newPair: newPair}
}

func NewFavoriteRepository(db *gorm.DB) *PairRepository[domain.Favorite] {
	return NewPairRepository(db, "user_id", "recipe_id", func(user, recipe int64) *domain.Favorite {
		return &domain.Favorite{UserID: user, RecipeID: recipe}
	})
}

func NewSubscriptionRepository(db *gorm.DB) *PairRepository[domain.Subscription] {
	return NewPairRepository(db, "user_id", "author_id", func(user, author int64) *domain.Subscription {
		return &domain.Subscription{UserID: user, AuthorID: author}
	})
}

// Add inserts the pair; an existing pair yields ErrDuplicate.
func (r *PairRepository[T]) Add(ctx context.Context, owner, target int64) error {
	if err := r.db.WithContext(ctx).Create(r.newPair(owner, target)).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("add pair: %w", err)
	}
	return nil
}

// Remove deletes the pair; a missing pair yields ErrNotFound.
func (r *PairRepository[T]) Remove(ctx context.Context, owner, target int64) error {
	res := r.db.WithContext(ctx).
		Where(r.ownerCol+" = ? AND "+r.targetCol+" = ?", owner, target).
		Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("remove pair: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PairRepository[T]) Exists(ctx context.Context, owner, target int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.ownerCol+" = ? AND "+r.targetCol+" = ?", owner, target).
		Count(&count).Error
	return count > 0, err
}

func (r *PairRepository[T]) Count(ctx context.Context, owner int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.ownerCol+" = ?", owner).
		Count(&count).Error
	return count, err
}

// FilterTargets reports which of targets are paired with owner.
// Owner 0 (anonymous viewer) always yields an empty set.
func (r *PairRepository[T]) FilterTargets(ctx context.Context, owner int64, targets []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(targets))
	if owner == 0 || len(targets) == 0 {
		return out, nil
	}

	var matched []int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.ownerCol+" = ? AND "+r.targetCol+" IN ?", owner, targets).
		Pluck(r.targetCol, &matched).Error
	if err != nil {
		return nil, err
	}
	for _, id := range matched {
		out[id] = true
	}
	return out, nil
}

// Targets pages through owner's targets, newest pair first.
func (r *PairRepository[T]) Targets(ctx context.Context, owner int64, limit, offset int) ([]int64, int64, error) {
	total, err := r.Count(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	var ids []int64
	err = r.db.WithContext(ctx).Model(new(T)).
		Where(r.ownerCol+" = ?", owner).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Pluck(r.targetCol, &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
