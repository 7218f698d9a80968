package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

// Service serves tags and ingredients. Both are reference data, so reads go through the cache.
type Service struct {
	ingredients IngredientRepository
	tags        TagRepository
	cache       Cache
}

// NewService builds the catalog service. cache may be nil.
func NewService(ingredients IngredientRepository, tags TagRepository, cache Cache) *Service {
	return &Service{ingredients: ingredients, tags: tags, cache: cache}
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return cached(s, "tags", func() ([]domain.Tag, error) {
		return s.tags.List(ctx)
	})
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := cached(s, fmt.Sprintf("tag:%d", id), func() (*domain.Tag, error) {
		return s.tags.GetByID(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

// ListIngredients returns ingredients whose name starts with prefix, ignoring case.
func (s *Service) ListIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	prefix = strings.TrimSpace(prefix)
	key := "ingredients:" + strings.ToLower(prefix)
	return cached(s, key, func() ([]domain.Ingredient, error) {
		return s.ingredients.List(ctx, prefix)
	})
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	item, err := cached(s, fmt.Sprintf("ingredient:%d", id), func() (*domain.Ingredient, error) {
		return s.ingredients.GetByID(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return item, err
}

// IngredientsByIDs bypasses the cache; recipe writes must see the current catalog.
func (s *Service) IngredientsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error) {
	items, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Ingredient, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (s *Service) TagsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Tag, error) {
	tags, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Tag, len(tags))
	for _, t := range tags {
		out[t.ID] = t
	}
	return out, nil
}

// ImportIngredients stores new (name, unit) pairs and drops cached listings.
func (s *Service) ImportIngredients(ctx context.Context, items []domain.Ingredient) (int, error) {
	created, err := s.ingredients.CreateMissing(ctx, items)
	if err != nil {
		return 0, err
	}
	if s.cache != nil && created > 0 {
		s.cache.Purge()
	}
	return created, nil
}

// cached runs load through the cache when one is configured. Errors are never cached.
func cached[T any](s *Service, key string, load func() (T, error)) (T, error) {
	if s.cache == nil {
		return load()
	}
	v, err := s.cache.GetOrLoad(key, func() (any, error) {
		return load()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
