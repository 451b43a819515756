package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service contains user registration, token login and profile reads.
type Service struct {
	users         UserRepository
	subscriptions SubscriptionChecker
	tokens        TokenIssuer
	bcryptCost    int
}

func NewService(users UserRepository, subscriptions SubscriptionChecker, tokens TokenIssuer) *Service {
	return &Service{
		users:         users,
		subscriptions: subscriptions,
		tokens:        tokens,
		bcryptCost:    bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisteredUser, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	errs := validator.Validate(req)
	if errs == nil {
		errs = validator.Errors{}
	}
	if strings.EqualFold(req.Username, "me") {
		errs.Add("username", msgUsernameMe)
	}
	if errs.Empty() {
		if err := s.checkUnique(ctx, req, errs); err != nil {
			return nil, err
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent sign-up
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validator.Errors{"email": {msgEmailTaken}}
		}
		return nil, err
	}

	return &RegisteredUser{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *Service) checkUnique(ctx context.Context, req RegisterRequest, errs validator.Errors) error {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("email", msgEmailTaken)
	}

	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("username", msgUsernameTaken)
	}
	return nil
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	if errs := validator.Validate(req); errs != nil {
		return "", errs
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

func (s *Service) SetPassword(ctx context.Context, userID int64, req SetPasswordRequest) error {
	if errs := validator.Validate(req); errs != nil {
		return errs
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return validator.Errors{"current_password": {msgWrongPassword}}
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// GetUser returns the user as seen by viewerID (0 for anonymous).
func (s *Service) GetUser(ctx context.Context, viewerID, id int64) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed, err := s.subscriptions.FilterTargets(ctx, viewerID, []int64{user.ID})
	if err != nil {
		return nil, err
	}
	resp := NewUserResponse(user, subscribed[user.ID])
	return &resp, nil
}

func (s *Service) ListUsers(ctx context.Context, viewerID int64, p pagination.Params) (*pagination.Page[UserResponse], error) {
	users, total, err := s.users.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subscriptions.FilterTargets(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i], subscribed[users[i].ID]))
	}
	page := pagination.NewPage(items, total, p)
	return &page, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
