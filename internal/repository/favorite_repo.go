package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// RecipeMarkRepository stores per-user recipe marks: favorites and shopping cart entries
// share the same (user, recipe) shape and the same rules.
type RecipeMarkRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
	Count(ctx context.Context, userID int64) (int64, error)
	// Marked reports which of recipeIDs carry the mark for userID.
	Marked(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
}

type recipeMarkRepository struct {
	db     *gorm.DB
	newRow func(userID, recipeID int64) any
}

func NewFavoriteRepository(db *gorm.DB) RecipeMarkRepository {
	return &recipeMarkRepository{db: db, newRow: func(userID, recipeID int64) any {
		return &domain.Favorite{UserID: userID, RecipeID: recipeID}
	}}
}

func NewShoppingCartRepository(db *gorm.DB) RecipeMarkRepository {
	return &recipeMarkRepository{db: db, newRow: func(userID, recipeID int64) any {
		return &domain.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	}}
}

func (r *recipeMarkRepository) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(r.newRow(0, 0))
}

// Add returns ErrDuplicate when the mark already exists.
func (r *recipeMarkRepository) Add(ctx context.Context, userID, recipeID int64) error {
	exists, err := r.Exists(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}

	return translate(r.db.WithContext(ctx).Create(r.newRow(userID, recipeID)).Error)
}

// Remove returns ErrNotFound when there was nothing to remove.
func (r *recipeMarkRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeMarkRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.model(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeMarkRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.model(ctx).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *recipeMarkRepository) Marked(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}

	var ids []int64
	err := r.model(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
