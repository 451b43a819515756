package repository

import (
	"context"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// CartRepository is the shopping-cart pair set plus the shopping-list query.
type CartRepository struct {
	*PairRepository[domain.ShoppingCartItem]
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		PairRepository: NewPairRepository(db, "user_id", "recipe_id", func(user, recipe int64) *domain.ShoppingCartItem {
			return &domain.ShoppingCartItem{UserID: user, RecipeID: recipe}
		}),
		db: db,
	}
}

// ShoppingList sums ingredient amounts over every recipe in the user's cart,
// one row per (name, unit), sorted by name.
func (r *CartRepository) ShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	items := make([]domain.ShoppingListItem, 0)
	err := r.db.WithContext(ctx).
		Table("shopping_carts AS sc").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS amount").
		Joins("JOIN recipes r ON r.id = sc.recipe_id").
		Joins("JOIN recipe_ingredients ri ON ri.recipe_id = r.id").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return items, nil
}
