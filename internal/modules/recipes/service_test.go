package recipes

import (
	"context"
	"errors"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecipeRepo struct {
	mock.Mock
}

func (m *mockRecipeRepo) Create(ctx context.Context, r *domain.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRecipeRepo) Update(ctx context.Context, r *domain.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRecipeRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRecipeRepo) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) GetByShortCode(ctx context.Context, code string) (*domain.Recipe, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *mockRecipeRepo) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockRecipeRepo) SetShortCode(ctx context.Context, id int64, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *mockRecipeRepo) List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Recipe), args.Get(1).(int64), args.Error(2)
}

func TestService_ShortLinkAllocatesMissingCode(t *testing.T) {
	repo := new(mockRecipeRepo)
	svc := NewService(Deps{Recipes: repo, PublicBaseURL: "http://localhost"})
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(7)).Return(&domain.Recipe{ID: 7}, nil)
	repo.On("ShortCodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	repo.On("ShortCodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	repo.On("SetShortCode", ctx, int64(7), mock.AnythingOfType("string")).Return(nil)

	link, err := svc.ShortLink(ctx, 7)
	require.NoError(t, err)
	assert.Regexp(t, `^http://localhost/s/[a-zA-Z0-9]{6}$`, link)
	repo.AssertExpectations(t)
}

func TestService_ShortCodeExhausted(t *testing.T) {
	repo := new(mockRecipeRepo)
	svc := NewService(Deps{Recipes: repo})
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(7)).Return(&domain.Recipe{ID: 7}, nil)
	repo.On("ShortCodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil)

	_, err := svc.ShortLink(ctx, 7)
	assert.ErrorIs(t, err, ErrShortCodeExhaust)
	repo.AssertNumberOfCalls(t, "ShortCodeExists", shortCodeAttempts)
	repo.AssertNotCalled(t, "SetShortCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_NotFoundIsTranslated(t *testing.T) {
	repo := new(mockRecipeRepo)
	svc := NewService(Deps{Recipes: repo})
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(nil, repository.ErrNotFound)
	repo.On("GetByShortCode", ctx, "zzz").Return(nil, repository.ErrNotFound)

	_, err := svc.Get(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	err = svc.Delete(ctx, Actor{UserID: 1}, 1)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.Resolve(ctx, "zzz")
	assert.ErrorIs(t, err, ErrShortCodeNotFound)
}

func TestService_DeleteRequiresOwnership(t *testing.T) {
	repo := new(mockRecipeRepo)
	svc := NewService(Deps{Recipes: repo})
	ctx := context.Background()
	repo.On("GetByID", ctx, int64(3)).Return(&domain.Recipe{ID: 3, AuthorID: 10}, nil)

	err := svc.Delete(ctx, Actor{UserID: 11, Role: string(domain.RoleUser)}, 3)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	repo.On("Delete", ctx, int64(3)).Return(errors.New("db down"))
	err = svc.Delete(ctx, Actor{UserID: 11, Role: string(domain.RoleAdmin)}, 3)
	assert.EqualError(t, err, "db down")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"tags": "unique", "ingredients": "unique"}}
	assert.Equal(t, "invalid recipe: ingredients: unique, tags: unique", err.Error())
}
