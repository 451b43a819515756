package cart

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/metrics"
)

// ShoppingLister aggregates the ingredients of every recipe in a user's cart.
type ShoppingLister interface {
	ShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error)
}

type Service struct {
	lists    ShoppingLister
	renderer *Renderer
}

func NewService(lists ShoppingLister, renderer *Renderer) *Service {
	return &Service{lists: lists, renderer: renderer}
}

// ShoppingList returns merged amounts sorted by name; an empty cart gives an empty slice.
func (s *Service) ShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	items, err := s.lists.ShoppingList(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("build shopping list: %w", err)
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

// Download renders the user's shopping list as a PDF document.
func (s *Service) Download(ctx context.Context, userID int64) ([]byte, error) {
	items, err := s.ShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc, err := s.renderer.Render(items)
	if err != nil {
		return nil, err
	}
	metrics.ShoppingListDownloads.Inc()
	return doc, nil
}
