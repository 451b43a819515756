package repository

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// List returns ingredients whose name contains query (case-insensitive), ordered by name.
func (r *IngredientRepository) List(ctx context.Context, query string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Order("name").Order("id")
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(query))+"%")
	}

	ingredients := make([]domain.Ingredient, 0)
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ing, nil
}

// ExistingIDs returns the subset of ids present in the table.
func (r *IngredientRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return existingIDs(ctx, r.db, &domain.Ingredient{}, ids)
}

// InsertMissing adds rows whose (name, unit) pair is not stored yet and
// returns how many were inserted. Used by the seed command.
func (r *IngredientRepository) InsertMissing(ctx context.Context, rows []domain.Ingredient) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []domain.Ingredient
		if err := tx.Select("name", "measurement_unit").Find(&existing).Error; err != nil {
			return fmt.Errorf("load ingredients: %w", err)
		}
		seen := make(map[[2]string]bool, len(existing))
		for _, ing := range existing {
			seen[[2]string{ing.Name, ing.MeasurementUnit}] = true
		}

		fresh := make([]domain.Ingredient, 0, len(rows))
		for _, ing := range rows {
			key := [2]string{ing.Name, ing.MeasurementUnit}
			if seen[key] {
				continue
			}
			seen[key] = true
			fresh = append(fresh, domain.Ingredient{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit})
		}
		if len(fresh) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(fresh, 500).Error; err != nil {
			return fmt.Errorf("insert ingredients: %w", err)
		}
		inserted = len(fresh)
		return nil
	})
	return inserted, err
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *TagRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return existingIDs(ctx, r.db, &domain.Tag{}, ids)
}

// Upsert inserts tags, updating name and color when the slug already exists.
func (r *TagRepository) Upsert(ctx context.Context, tags []domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "color"}),
		}).
		Create(&tags).Error
	if err != nil {
		return fmt.Errorf("upsert tags: %w", translate(err))
	}
	return nil
}

func existingIDs(ctx context.Context, db *gorm.DB, model any, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []int64
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
