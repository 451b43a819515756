package repository

import (
	"context"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientRepository_SubstringSearch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	_, err := repo.InsertMissing(ctx, []domain.Ingredient{
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "brown sugar", MeasurementUnit: "g"},
		{Name: "50%_cream", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)

	got, err := repo.List(ctx, "SU")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sugar", got[0].Name)
	assert.Equal(t, "brown sugar", got[1].Name)

	middle, err := repo.List(ctx, "ream")
	require.NoError(t, err)
	require.Len(t, middle, 1)
	assert.Equal(t, "50%_cream", middle[0].Name)

	literal, err := repo.List(ctx, "50%_")
	require.NoError(t, err)
	require.Len(t, literal, 1)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestIngredientRepository_InsertMissingIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	rows := []domain.Ingredient{{Name: "flour", MeasurementUnit: "g"}, {Name: "flour", MeasurementUnit: "g"}, {Name: "flour", MeasurementUnit: "kg"}}
	n, err := repo.InsertMissing(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.InsertMissing(ctx, rows)
	require.NoError(t, err)
	assert.Zero(t, n)

	ids := []int64{}
	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	for _, ing := range all {
		ids = append(ids, ing.ID)
	}
	existing, err := repo.ExistingIDs(ctx, append(ids, 9999))
	require.NoError(t, err)
	assert.Len(t, existing, 2)
	assert.False(t, existing[9999])
}

func TestTagRepository_UpsertBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, []domain.Tag{{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}}))
	require.NoError(t, repo.Upsert(ctx, []domain.Tag{{Name: "Morning", Color: "#49B64E", Slug: "breakfast"}}))

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Morning", tags[0].Name)
	assert.Equal(t, "#49B64E", tags[0].Color)

	_, err = repo.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
