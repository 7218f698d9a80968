package catalog

import (
	"context"

	"foodgram/internal/domain"
)

type IngredientRepository interface {
	List(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
	CreateMissing(ctx context.Context, items []domain.Ingredient) (int, error)
}

type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)
}

// Cache is the read-through store in front of catalog reads.
type Cache interface {
	GetOrLoad(key string, load func() (any, error)) (any, error)
	Purge()
}
