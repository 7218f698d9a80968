package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Add returns ErrDuplicate if followerID already follows authorID.
func (r *SubscriptionRepository) Add(ctx context.Context, followerID, authorID int64) error {
	exists, err := r.Exists(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	sub := &domain.Subscription{FollowerID: followerID, AuthorID: authorID}
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *SubscriptionRepository) Remove(ctx context.Context, followerID, authorID int64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, followerID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListAuthors returns the users followerID follows, ordered by username.
func (r *SubscriptionRepository) ListAuthors(ctx context.Context, followerID int64, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("follower_id = ?", followerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Order("users.username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FollowerIDs lists everyone subscribed to authorID.
func (r *SubscriptionRepository) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("author_id = ?", authorID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// Subscribed reports which of authorIDs followerID follows.
func (r *SubscriptionRepository) Subscribed(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if followerID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
