package catalog

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
)

// Service exposes the read-only ingredient and tag reference data.
type Service struct {
	ingredients IngredientRepository
	tags        TagRepository
}

func NewService(ingredients IngredientRepository, tags TagRepository) *Service {
	return &Service{ingredients: ingredients, tags: tags}
}

func (s *Service) ListIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	items, err := s.ingredients.List(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return items, nil
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}
