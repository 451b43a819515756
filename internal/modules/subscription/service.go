package subscription

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/pkg/pagination"
)

type Service struct {
	users         UserRepository
	subscriptions SubscriptionRepository
	recipes       RecipeRepository
	toggle        Toggle
}

func NewService(users UserRepository, subscriptions SubscriptionRepository, recipes RecipeRepository, toggle Toggle) *Service {
	return &Service{users: users, subscriptions: subscriptions, recipes: recipes, toggle: toggle}
}

// Subscribe makes userID follow authorID and returns the author card.
// recipesLimit <= 0 includes every recipe.
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorResponse, error) {
	if err := s.toggle.Add(ctx, userID, authorID); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	out, err := s.present(ctx, []domain.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	return s.toggle.Remove(ctx, userID, authorID)
}

// List pages through the authors userID follows, most recent subscription first.
func (s *Service) List(ctx context.Context, userID int64, p pagination.Params, recipesLimit int) (*pagination.Page[AuthorResponse], error) {
	ids, total, err := s.subscriptions.Targets(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	authors, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	items, err := s.present(ctx, authors, recipesLimit)
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(items, total, p)
	return &page, nil
}

// present renders followed authors; the viewer is subscribed to each of them.
func (s *Service) present(ctx context.Context, authors []domain.User, recipesLimit int) ([]AuthorResponse, error) {
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		a := &authors[i]
		recipes, err := s.recipes.ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list author recipes: %w", err)
		}
		out = append(out, AuthorResponse{
			UserResponse: auth.NewUserResponse(a, true),
			Recipes:      recipe.NewShortRecipes(recipes),
			RecipesCount: counts[a.ID],
		})
	}
	return out, nil
}
