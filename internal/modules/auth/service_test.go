package auth

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
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type mockSubscriptions struct {
	mock.Mock
}

func (m *mockSubscriptions) FilterTargets(ctx context.Context, owner int64, targets []int64) (map[int64]bool, error) {
	args := m.Called(ctx, owner, targets)
	return args.Get(0).(map[int64]bool), args.Error(1)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) GenerateToken(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func newTestService() (*Service, *mockUserRepo, *mockSubscriptions, *mockTokens) {
	users := new(mockUserRepo)
	subs := new(mockSubscriptions)
	tokens := new(mockTokens)
	svc := NewService(users, subs, tokens)
	svc.bcryptCost = bcrypt.MinCost
	return svc, users, subs, tokens
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Anna",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
}

func TestService_Register_Success(t *testing.T) {
	svc, users, _, _ := newTestService()

	users.On("ExistsByEmail", mock.Anything, "cook@example.com").Return(false, nil)
	users.On("ExistsByUsername", mock.Anything, "cook").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "cook@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) == nil
	})).Return(nil)

	user, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "cook@example.com", user.Email)
	users.AssertExpectations(t)
}

func TestService_Register_Taken(t *testing.T) {
	svc, users, _, _ := newTestService()

	users.On("ExistsByEmail", mock.Anything, "cook@example.com").Return(true, nil)
	users.On("ExistsByUsername", mock.Anything, "cook").Return(true, nil)

	_, err := svc.Register(context.Background(), validRegister())
	errs, ok := validator.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{msgEmailTaken}, errs["email"])
	assert.Equal(t, []string{msgUsernameTaken}, errs["username"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_ValidationAndReservedName(t *testing.T) {
	svc, users, _, _ := newTestService()

	req := validRegister()
	req.Username = "me"
	req.Email = "not-an-email"
	_, err := svc.Register(context.Background(), req)

	errs, ok := validator.As(err)
	require.True(t, ok)
	assert.Contains(t, errs, "email")
	assert.Equal(t, []string{msgUsernameMe}, errs["username"])
	users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

func TestService_Register_RaceOnCreate(t *testing.T) {
	svc, users, _, _ := newTestService()

	users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
	users.On("ExistsByUsername", mock.Anything, mock.Anything).Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), validRegister())
	_, ok := validator.As(err)
	assert.True(t, ok)
}

func TestService_Login(t *testing.T) {
	svc, users, _, tokens := newTestService()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	user := &domain.User{ID: 7, Email: "a@b.co", PasswordHash: string(hash)}

	users.On("GetByEmail", mock.Anything, "a@b.co").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "ghost@b.co").Return(nil, repository.ErrNotFound)
	tokens.On("GenerateToken", int64(7)).Return("jwt-token", nil)

	token, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "right-pass"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@b.co", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SetPassword(t *testing.T) {
	svc, users, _, _ := newTestService()
	hash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	users.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, PasswordHash: string(hash)}, nil)
	users.On("UpdatePassword", mock.Anything, int64(3), mock.AnythingOfType("string")).Return(nil).Once()

	err := svc.SetPassword(context.Background(), 3, SetPasswordRequest{CurrentPassword: "nope-nope", NewPassword: "new-password"})
	errs, ok := validator.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{msgWrongPassword}, errs["current_password"])

	require.NoError(t, svc.SetPassword(context.Background(), 3, SetPasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}))
	users.AssertExpectations(t)
}

func TestService_GetUser_IsSubscribed(t *testing.T) {
	svc, users, subs, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Username: "author"}, nil)
	users.On("GetByID", mock.Anything, int64(6)).Return(nil, repository.ErrNotFound)
	subs.On("FilterTargets", mock.Anything, int64(2), []int64{5}).Return(map[int64]bool{5: true}, nil)

	user, err := svc.GetUser(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.True(t, user.IsSubscribed)

	_, err = svc.GetUser(context.Background(), 2, 6)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ListUsers(t *testing.T) {
	svc, users, subs, _ := newTestService()
	users.On("List", mock.Anything, 2, 0).Return([]domain.User{{ID: 1}, {ID: 2}}, int64(3), nil)
	subs.On("FilterTargets", mock.Anything, int64(9), []int64{1, 2}).Return(map[int64]bool{2: true}, nil)

	page, err := svc.ListUsers(context.Background(), 9, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.False(t, page.Results[0].IsSubscribed)
	assert.True(t, page.Results[1].IsSubscribed)
}

func TestService_ListUsers_RepoError(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("List", mock.Anything, 10, 0).Return([]domain.User(nil), int64(0), errors.New("db down"))

	_, err := svc.ListUsers(context.Background(), 0, pagination.Params{Limit: 10})
	assert.Error(t, err)
}
