package users

import (
	"context"
	"errors"
	"log/slog"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/repository"
)

const avatarDir = "users"

type Service struct {
	users         UserRepository
	subscriptions SubscriptionRepository
	recipes       RecipeReader
	images        ImageStore
}

func NewService(users UserRepository, subscriptions SubscriptionRepository, recipes RecipeReader, images ImageStore) *Service {
	return &Service{users: users, subscriptions: subscriptions, recipes: recipes, images: images}
}

// List returns a page of users; viewerID 0 means anonymous.
func (s *Service) List(ctx context.Context, viewerID int64, limit, offset int) ([]UserResponse, int64, error) {
	list, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	subscribed, err := s.subscriptions.Subscribed(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserResponse, len(list))
	for i := range list {
		out[i] = ToUserResponse(&list[i], subscribed[list[i].ID])
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*UserResponse, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subscriptions.Subscribed(ctx, viewerID, []int64{id})
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u, subscribed[id])
	return &resp, nil
}

// SetAvatar stores a new avatar and removes the previous file.
func (s *Service) SetAvatar(ctx context.Context, userID int64, dataURI string) (string, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.images.SaveDataURI(ctx, avatarDir, dataURI)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		s.removeImage(url)
		return "", err
	}
	s.removeImage(u.Avatar)
	return url, nil
}

func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if u.Avatar == "" {
		return ErrAvatarNotSet
	}
	if err := s.users.UpdateAvatar(ctx, userID, ""); err != nil {
		return err
	}
	s.removeImage(u.Avatar)
	return nil
}

// Subscriptions lists the authors followerID follows. recipesLimit < 0 means all recipes.
func (s *Service) Subscriptions(ctx context.Context, followerID int64, limit, offset, recipesLimit int) ([]AuthorResponse, int64, error) {
	authors, total, err := s.subscriptions.ListAuthors(ctx, followerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.authorResponse(ctx, &authors[i], counts[authors[i].ID], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *Service) Subscribe(ctx context.Context, followerID, authorID int64, recipesLimit int) (*AuthorResponse, error) {
	if followerID == authorID {
		return nil, ErrSelfSubscription
	}
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Add(ctx, followerID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	counts, err := s.recipes.CountByAuthors(ctx, []int64{authorID})
	if err != nil {
		return nil, err
	}
	resp, err := s.authorResponse(ctx, author, counts[authorID], recipesLimit)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) Unsubscribe(ctx context.Context, followerID, authorID int64) error {
	if _, err := s.getUser(ctx, authorID); err != nil {
		return err
	}
	err := s.subscriptions.Remove(ctx, followerID, authorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotSubscribed
	}
	return err
}

func (s *Service) authorResponse(ctx context.Context, author *domain.User, count int64, recipesLimit int) (AuthorResponse, error) {
	var recipes []domain.Recipe
	if recipesLimit != 0 {
		limit := recipesLimit
		if limit < 0 {
			limit = 0
		}
		var err error
		recipes, err = s.recipes.ListByAuthor(ctx, author.ID, limit)
		if err != nil {
			return AuthorResponse{}, err
		}
	}

	short := make([]RecipeShort, len(recipes))
	for i := range recipes {
		short[i] = ToRecipeShort(recipes[i])
	}
	return AuthorResponse{
		UserResponse: ToUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) removeImage(url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(url); err != nil {
		slog.Warn("remove stale image", "url", url, logging.Err(err))
	}
}
