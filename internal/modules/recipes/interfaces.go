package recipes

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	Update(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	GetByShortCode(ctx context.Context, code string) (*domain.Recipe, error)
	ShortCodeExists(ctx context.Context, code string) (bool, error)
	SetShortCode(ctx context.Context, id int64, code string) error
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error)
}

// CatalogLookup resolves referenced ingredients and tags by id.
type CatalogLookup interface {
	IngredientsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error)
	TagsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Tag, error)
}

type SubscriptionChecker interface {
	Subscribed(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error)
}

type ImageStore interface {
	SaveDataURI(ctx context.Context, dir, dataURI string) (string, error)
	Delete(publicURL string) error
}

// Notifier is told about newly published recipes.
type Notifier interface {
	RecipePublished(ctx context.Context, recipe *domain.Recipe)
}

type Recorder interface {
	RecipeCreated()
}
