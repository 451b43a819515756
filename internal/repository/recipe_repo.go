package repository

import (
	"context"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows List. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create writes the recipe row, its tags and its ingredient rows in one transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, ingredients []domain.RecipeIngredient, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", translate(err))
		}
		if err := insertTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
}

// Update saves the scalar fields and replaces both association sets wholesale.
// Any failure rolls the whole write back.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, ingredients []domain.RecipeIngredient, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
				"image":        recipe.Image,
			})
		if res.Error != nil {
			return fmt.Errorf("update recipe: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := insertTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear ingredients: %w", err)
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
}

func insertTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]domain.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, domain.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert tags: %w", translate(err))
	}
	return nil
}

func insertIngredients(tx *gorm.DB, recipeID int64, ingredients []domain.RecipeIngredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	rows := make([]domain.RecipeIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		rows = append(rows, domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.IngredientID,
			Amount:       ing.Amount,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert ingredients: %w", translate(err))
	}
	return nil
}

func (r *RecipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id")
		})
}

// GetByID loads the recipe with author, ingredients and tags.
func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *RecipeRepository) applyFilter(db *gorm.DB, f RecipeFilter) *gorm.DB {
	q := db.Model(&domain.Recipe{})
	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy != 0 {
		q = q.Where("recipes.id IN (?)", db.Model(&domain.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf != 0 {
		q = q.Where("recipes.id IN (?)", db.Model(&domain.ShoppingCartItem{}).
			Select("recipe_id").
			Where("user_id = ?", f.InCartOf))
	}
	return q
}

// List returns a page of recipes, newest first, and the filtered total.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := r.applyFilter(db, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	recipes := make([]domain.Recipe, 0)
	q := r.withDetails(r.applyFilter(db, f)).
		Order("recipes.pub_date DESC").
		Order("recipes.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's newest recipes without associations; limit <= 0 means all.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	recipes := make([]domain.Recipe, 0)
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns recipe counts keyed by author id.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

// Delete removes the recipe with its association, favorite and cart rows.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&domain.RecipeIngredient{},
			&domain.RecipeTag{},
			&domain.Favorite{},
			&domain.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete recipe rows: %w", err)
			}
		}

		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
