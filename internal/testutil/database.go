// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory sqlite database closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *domain.Tag {
	t.Helper()
	n := seq.Add(1)
	tag := &domain.Tag{Name: slug, Color: fmt.Sprintf("#%06X", n), Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateRecipe inserts a recipe with the given ingredient amounts, bypassing validation.
func CreateRecipe(t *testing.T, db *gorm.DB, authorID int64, name string, amounts map[int64]int, tagIDs ...int64) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{AuthorID: authorID, Name: name, Text: "text", CookingTime: 10}
	require.NoError(t, db.Omit("Author", "Ingredients", "Tags").Create(r).Error)

	for ingID, amount := range amounts {
		require.NoError(t, db.Create(&domain.RecipeIngredient{
			RecipeID: r.ID, IngredientID: ingID, Amount: amount,
		}).Error)
	}
	for _, tagID := range tagIDs {
		require.NoError(t, db.Create(&domain.RecipeTag{RecipeID: r.ID, TagID: tagID}).Error)
	}
	return r
}
