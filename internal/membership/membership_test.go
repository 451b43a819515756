package membership

import (
	"context"
	"errors"
	"testing"

	"foodgram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, owner, target int64) error {
	return m.Called(ctx, owner, target).Error(0)
}

func (m *mockStore) Remove(ctx context.Context, owner, target int64) error {
	return m.Called(ctx, owner, target).Error(0)
}

func existsOnly(ids ...int64) TargetExists {
	return func(_ context.Context, id int64) (bool, error) {
		for _, known := range ids {
			if known == id {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestToggle_Add(t *testing.T) {
	store := new(mockStore)
	toggle := New("favorite", store, existsOnly(10))

	store.On("Add", mock.Anything, int64(1), int64(10)).Return(nil).Once()
	assert.NoError(t, toggle.Add(context.Background(), 1, 10))

	store.On("Add", mock.Anything, int64(1), int64(10)).Return(repository.ErrDuplicate).Once()
	assert.ErrorIs(t, toggle.Add(context.Background(), 1, 10), ErrAlreadyExists)

	store.AssertExpectations(t)
}

func TestToggle_AddMissingTarget(t *testing.T) {
	store := new(mockStore)
	toggle := New("cart", store, existsOnly())

	assert.ErrorIs(t, toggle.Add(context.Background(), 1, 10), ErrTargetNotFound)
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_Remove(t *testing.T) {
	store := new(mockStore)
	toggle := New("cart", store, existsOnly(10))

	store.On("Remove", mock.Anything, int64(1), int64(10)).Return(nil).Once()
	assert.NoError(t, toggle.Remove(context.Background(), 1, 10))

	store.On("Remove", mock.Anything, int64(1), int64(10)).Return(repository.ErrNotFound).Once()
	assert.ErrorIs(t, toggle.Remove(context.Background(), 1, 10), ErrNotExisting)

	store.AssertExpectations(t)
}

func TestToggle_SelfSubscriptionCheckedFirst(t *testing.T) {
	store := new(mockStore)
	// target lookup would fail; the self check must win
	toggle := New("subscription", store, func(context.Context, int64) (bool, error) {
		return false, errors.New("should not be called")
	}, ForbidSelf())

	assert.ErrorIs(t, toggle.Add(context.Background(), 5, 5), ErrSelfReference)
	assert.ErrorIs(t, toggle.Remove(context.Background(), 5, 5), ErrSelfReference)
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_StoreFailureIsWrapped(t *testing.T) {
	store := new(mockStore)
	toggle := New("favorite", store, existsOnly(10))
	boom := errors.New("db down")

	store.On("Add", mock.Anything, int64(1), int64(10)).Return(boom)
	err := toggle.Add(context.Background(), 1, 10)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
}
