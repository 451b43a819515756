package domain

import (
	"time"
)

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartItem puts a recipe into a user's shopping cart.
type ShoppingCartItem struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_carts"
}

// Subscription is a directed follower -> author edge. A user cannot follow themself.
type Subscription struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_subscription_user_author"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_subscription_user_author"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
