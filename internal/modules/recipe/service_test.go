package recipe

import (
	"context"
	"errors"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecipes struct{ mock.Mock }

func (m *mockRecipes) Create(ctx context.Context, r *domain.Recipe, ings []domain.RecipeIngredient, tags []int64) error {
	args := m.Called(ctx, r, ings, tags)
	return args.Error(0)
}

func (m *mockRecipes) Update(ctx context.Context, r *domain.Recipe, ings []domain.RecipeIngredient, tags []int64) error {
	args := m.Called(ctx, r, ings, tags)
	return args.Error(0)
}

func (m *mockRecipes) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.Recipe)
	return r, args.Error(1)
}

func (m *mockRecipes) List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error) {
	args := m.Called(ctx, f)
	rs, _ := args.Get(0).([]domain.Recipe)
	return rs, args.Get(1).(int64), args.Error(2)
}

func (m *mockRecipes) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// knownIDs treats every id in the set as existing.
type knownIDs map[int64]bool

func (k knownIDs) ExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range ids {
		if k[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (k knownIDs) FilterTargets(ctx context.Context, _ int64, targets []int64) (map[int64]bool, error) {
	return k.ExistingIDs(ctx, targets)
}

type memStore struct {
	saved   []string
	deleted []string
}

func (s *memStore) Save(_ context.Context, key string, _ []byte, _ string) (string, error) {
	url := "/media/" + key
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *memStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

const pngURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func newTestService() (*Service, *mockRecipes, *memStore) {
	recipes := new(mockRecipes)
	images := &memStore{}
	catalog := knownIDs{1: true, 2: true, 3: true}
	none := knownIDs{}
	svc := NewService(recipes, catalog, catalog, images, Marks{Favorites: none, Cart: none, Subscriptions: none})
	return svc, recipes, images
}

func validCreate() CreateRecipeRequest {
	return CreateRecipeRequest{
		Ingredients: []IngredientInput{{ID: 1, Amount: 200}, {ID: 2, Amount: 1}},
		Tags:        []int64{1},
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func stored(id, author int64) *domain.Recipe {
	return &domain.Recipe{ID: id, AuthorID: author, Name: "Pancakes", Text: "Mix and fry.", CookingTime: 20,
		Author: &domain.User{ID: author, Username: "cook"}}
}

func TestService_Create_Success(t *testing.T) {
	svc, recipes, images := newTestService()
	ctx := context.Background()
	req := validCreate()
	req.Image = pngURI

	recipes.On("Create", ctx, mock.AnythingOfType("*domain.Recipe"),
		[]domain.RecipeIngredient{{IngredientID: 1, Amount: 200}, {IngredientID: 2, Amount: 1}}, []int64{1}).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*domain.Recipe)
			r.ID = 10
		}).Return(nil)
	recipes.On("GetByID", ctx, int64(10)).Return(stored(10, 5), nil)

	resp, err := svc.Create(ctx, 5, req)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "cook", resp.Author.Username)
	require.Len(t, images.saved, 1)

	created := recipes.Calls[0].Arguments.Get(1).(*domain.Recipe)
	assert.Equal(t, images.saved[0], created.Image)
	assert.Equal(t, int64(5), created.AuthorID)
}

func TestService_Create_ValidationErrors(t *testing.T) {
	svc, recipes, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateRecipeRequest)
		field  string
		msg    string
	}{
		{"duplicate ingredient", func(r *CreateRecipeRequest) {
			r.Ingredients = []IngredientInput{{ID: 1, Amount: 1}, {ID: 1, Amount: 2}}
		}, "ingredients", validator.MsgUnique},
		{"duplicate tag", func(r *CreateRecipeRequest) { r.Tags = []int64{1, 1} }, "tags", validator.MsgUnique},
		{"unknown ingredient", func(r *CreateRecipeRequest) {
			r.Ingredients = []IngredientInput{{ID: 99, Amount: 1}}
		}, "ingredients", `Invalid pk "99" - object does not exist.`},
		{"unknown tag", func(r *CreateRecipeRequest) { r.Tags = []int64{42} }, "tags", `Invalid pk "42" - object does not exist.`},
		{"no ingredients", func(r *CreateRecipeRequest) { r.Ingredients = nil }, "ingredients", validator.MsgRequired},
		{"no tags", func(r *CreateRecipeRequest) { r.Tags = nil }, "tags", validator.MsgRequired},
		{"amount too small", func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 0 }, "ingredients[0].amount",
			"Ensure this value is greater than or equal to 1."},
		{"cooking time too long", func(r *CreateRecipeRequest) { r.CookingTime = 601 }, "cooking_time",
			"Ensure this value is less than or equal to 600."},
		{"bad image", func(r *CreateRecipeRequest) { r.Image = "not-an-image" }, "image",
			"Upload a valid image as a base64 data URI."},
		{"tag id zero", func(r *CreateRecipeRequest) { r.Tags = []int64{0} }, "tags[0]",
			"Ensure this value is greater than 0."},
		{"negative ingredient id", func(r *CreateRecipeRequest) {
			r.Ingredients = []IngredientInput{{ID: -1, Amount: 1}}
		}, "ingredients[0].id", "Ensure this value is greater than 0."},
		{"blank name", func(r *CreateRecipeRequest) { r.Name = "   " }, "name", validator.MsgRequired},
		{"blank text", func(r *CreateRecipeRequest) { r.Text = "\t\n " }, "text", validator.MsgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)

			_, err := svc.Create(ctx, 5, req)
			errs, ok := validator.As(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, errs[tt.field], tt.msg)
		})
	}
	recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_EmptyNameReportedOnce(t *testing.T) {
	svc, _, _ := newTestService()
	req := validCreate()
	req.Name = ""

	_, err := svc.Create(context.Background(), 5, req)
	errs, ok := validator.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{validator.MsgRequired}, errs["name"])
}

func TestService_Create_TrimsScalars(t *testing.T) {
	svc, recipes, _ := newTestService()
	ctx := context.Background()
	req := validCreate()
	req.Name = "  Pancakes "
	req.Text = " Mix and fry.\n"

	recipes.On("Create", ctx, mock.MatchedBy(func(r *domain.Recipe) bool {
		return r.Name == "Pancakes" && r.Text == "Mix and fry."
	}), mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Recipe).ID = 1
	})
	recipes.On("GetByID", ctx, int64(1)).Return(stored(1, 5), nil)

	_, err := svc.Create(ctx, 5, req)
	require.NoError(t, err)
	recipes.AssertExpectations(t)
}

func TestService_Create_StorageFailureDropsImage(t *testing.T) {
	svc, recipes, images := newTestService()
	ctx := context.Background()
	req := validCreate()
	req.Image = pngURI

	recipes.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Create(ctx, 5, req)
	require.Error(t, err)
	require.Len(t, images.saved, 1)
	assert.Equal(t, images.saved, images.deleted)
}

func TestService_Update_CheckOrder(t *testing.T) {
	svc, recipes, _ := newTestService()
	ctx := context.Background()
	bad := UpdateRecipeRequest{}

	recipes.On("GetByID", ctx, int64(404)).Return(nil, repository.ErrNotFound)
	recipes.On("GetByID", ctx, int64(1)).Return(stored(1, 5), nil)

	_, err := svc.Update(ctx, 5, 404, bad)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.Update(ctx, 6, 1, bad)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, 5, 1, bad)
	errs, ok := validator.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{validator.MsgRequired}, errs["ingredients"])
	assert.Equal(t, []string{validator.MsgRequired}, errs["tags"])

	recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_PartialScalarsAndImageSwap(t *testing.T) {
	svc, recipes, images := newTestService()
	ctx := context.Background()

	current := stored(1, 5)
	current.Image = "/media/recipes/old.png"
	recipes.On("GetByID", ctx, int64(1)).Return(current, nil)
	recipes.On("Update", ctx, mock.AnythingOfType("*domain.Recipe"),
		[]domain.RecipeIngredient{{IngredientID: 3, Amount: 7}}, []int64{2}).Return(nil)

	name := "Crepes"
	image := pngURI
	_, err := svc.Update(ctx, 5, 1, UpdateRecipeRequest{
		Ingredients: []IngredientInput{{ID: 3, Amount: 7}},
		Tags:        []int64{2},
		Name:        &name,
		Image:       &image,
	})
	require.NoError(t, err)

	updated := recipes.Calls[1].Arguments.Get(1).(*domain.Recipe)
	assert.Equal(t, "Crepes", updated.Name)
	assert.Equal(t, "Mix and fry.", updated.Text)
	assert.Equal(t, 20, updated.CookingTime)
	require.Len(t, images.saved, 1)
	assert.Equal(t, images.saved[0], updated.Image)
	assert.Equal(t, []string{"/media/recipes/old.png"}, images.deleted)
}

func TestService_Update_RejectsBlankAndInvalid(t *testing.T) {
	svc, recipes, _ := newTestService()
	ctx := context.Background()
	recipes.On("GetByID", ctx, int64(1)).Return(stored(1, 5), nil)

	empty, blank := "", "   "
	tests := []struct {
		name  string
		req   UpdateRecipeRequest
		field string
		msg   string
	}{
		{"empty name", UpdateRecipeRequest{Name: &empty}, "name", validator.MsgRequired},
		{"blank name", UpdateRecipeRequest{Name: &blank}, "name", validator.MsgRequired},
		{"blank text", UpdateRecipeRequest{Text: &blank}, "text", validator.MsgRequired},
		{"tag id zero", UpdateRecipeRequest{Tags: []int64{1, 0}}, "tags[1]", "Ensure this value is greater than 0."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if req.Ingredients == nil {
				req.Ingredients = []IngredientInput{{ID: 1, Amount: 1}}
			}
			if req.Tags == nil {
				req.Tags = []int64{1}
			}

			_, err := svc.Update(ctx, 5, 1, req)
			errs, ok := validator.As(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, []string{tt.msg}, errs[tt.field])
		})
	}
	recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Delete(t *testing.T) {
	svc, recipes, images := newTestService()
	ctx := context.Background()

	r := stored(1, 5)
	r.Image = "/media/recipes/a.png"
	recipes.On("GetByID", ctx, int64(1)).Return(r, nil)
	recipes.On("Delete", ctx, int64(1)).Return(nil)

	assert.ErrorIs(t, svc.Delete(ctx, 6, 1), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, 5, 1))
	assert.Equal(t, []string{"/media/recipes/a.png"}, images.deleted)
	recipes.AssertNumberOfCalls(t, "Delete", 1)
}

func TestService_List_ViewerOnlyFilters(t *testing.T) {
	svc, recipes, _ := newTestService()
	ctx := context.Background()
	p := pagination.Params{Limit: 10}
	q := ListQuery{Tags: []string{"dinner"}, Favorited: true, InCart: true}

	recipes.On("List", ctx, repository.RecipeFilter{TagSlugs: []string{"dinner"}, Limit: 10}).
		Return([]domain.Recipe{}, int64(0), nil).Once()
	recipes.On("List", ctx, repository.RecipeFilter{TagSlugs: []string{"dinner"}, FavoritedBy: 7, InCartOf: 7, Limit: 10}).
		Return([]domain.Recipe{*stored(1, 5)}, int64(1), nil).Once()

	page, err := svc.List(ctx, 0, q, p)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Count)
	assert.NotNil(t, page.Results)

	page, err = svc.List(ctx, 7, q, p)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	recipes.AssertExpectations(t)
}

func TestService_Present_Marks(t *testing.T) {
	recipes := new(mockRecipes)
	catalog := knownIDs{}
	svc := NewService(recipes, catalog, catalog, &memStore{}, Marks{
		Favorites:     knownIDs{1: true},
		Cart:          knownIDs{2: true},
		Subscriptions: knownIDs{5: true},
	})

	out, err := svc.present(context.Background(), 9, []domain.Recipe{*stored(1, 5), *stored(2, 6)})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].IsFavorited)
	assert.False(t, out[0].IsInShoppingCart)
	assert.True(t, out[0].Author.IsSubscribed)
	assert.False(t, out[1].IsFavorited)
	assert.True(t, out[1].IsInShoppingCart)
	assert.False(t, out[1].Author.IsSubscribed)
	assert.NotNil(t, out[0].Tags)
	assert.NotNil(t, out[0].Ingredients)
}
