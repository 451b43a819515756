package domain

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	}
}
