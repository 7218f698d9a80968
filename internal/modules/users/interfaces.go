package users

import (
	"context"

	"foodgram/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	UpdateAvatar(ctx context.Context, userID int64, avatar string) error
}

type SubscriptionRepository interface {
	Add(ctx context.Context, followerID, authorID int64) error
	Remove(ctx context.Context, followerID, authorID int64) error
	ListAuthors(ctx context.Context, followerID int64, limit, offset int) ([]domain.User, int64, error)
	Subscribed(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error)
}

// RecipeReader gives the author-centric recipe views shown with subscriptions.
type RecipeReader interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type ImageStore interface {
	SaveDataURI(ctx context.Context, dir, dataURI string) (string, error)
	Delete(publicURL string) error
}
