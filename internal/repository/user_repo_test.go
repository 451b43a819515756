package repository

import (
	"context"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Email: " Cook@Example.com ", Username: "cook", FirstName: "A", LastName: "B", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "COOK@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "cook@example.com", got.Email)

	dup := &domain.User{Email: "cook@example.com", Username: "other", PasswordHash: "h"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)

	exists, err := repo.ExistsByUsername(ctx, "cook")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_ListByIDsKeepsOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	users, err := repo.ListByIDs(ctx, []int64{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, b.ID, users[0].ID)
	assert.Equal(t, a.ID, users[1].ID)

	page, total, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, b.ID, page[0].ID)
}
