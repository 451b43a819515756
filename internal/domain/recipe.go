package domain

import "time"

const (
	MaxNameLength  = 200
	MinCookingTime = 1
	MaxCookingTime = 600
	MinAmount      = 1
	MaxAmount      = 10000
)

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient carries the amount of one ingredient in one recipe.
// (recipe_id, ingredient_id) is unique.
type RecipeIngredient struct {
	ID           int64 `json:"-" gorm:"primaryKey"`
	RecipeID     int64 `json:"-" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"id" gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Amount       int   `json:"amount" gorm:"not null"`

	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
